// ABOUTME: HTTP handlers for the token management gateway API
// ABOUTME: Shared handler state, JSON helpers, and the upstream forwarding core

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/samuelikz/tokenboard/cache"
	"github.com/samuelikz/tokenboard/envelope"
	"github.com/samuelikz/tokenboard/session"
	"github.com/samuelikz/tokenboard/upstream"
)

type Handler struct {
	sessions *session.Store
	upstream *upstream.Client
	cache    *cache.Cache

	specOnce    sync.Once
	stampedSpec []byte
}

func NewHandler(sessions *session.Store, client *upstream.Client, cache *cache.Cache) *Handler {
	return &Handler{
		sessions: sessions,
		upstream: client,
		cache:    cache,
	}
}

// normalizer maps a raw upstream body and status to the canonical envelope.
type normalizer func(body []byte, status int) envelope.Envelope

// forward proxies one request upstream and relays the normalized result.
// A missing session cookie short-circuits to 401 without touching upstream.
// A redirect on a mutating verb means the upstream path is wrong; surface it
// as a client-visible 400 instead of silently replaying the mutation at the
// redirect target.
func (h *Handler) forward(w http.ResponseWriter, r *http.Request, method, path string, body any, normalize normalizer) {
	token := h.sessions.Token(r)
	if token == "" {
		writeEnvelope(w, http.StatusUnauthorized, envelope.Fail("not authenticated"))
		return
	}

	resp, err := h.upstream.Do(r.Context(), method, path, body, token)
	if err != nil {
		slog.Error("Upstream request failed", "method", method, "path", path, "error", err)
		writeEnvelope(w, http.StatusInternalServerError, envelope.Fail("failed to reach upstream service"))
		return
	}

	if (method == http.MethodPatch || method == http.MethodDelete) && resp.Redirected() {
		slog.Warn("Upstream redirected a mutating request", "method", method, "path", path, "status", resp.Status)
		writeEnvelope(w, http.StatusBadRequest, envelope.Fail("upstream redirected the request; check the upstream base URL"))
		return
	}

	// Upstream status is relayed as-is; only the body shape is rewritten.
	writeEnvelope(w, resp.Status, normalize(resp.Body, resp.Status))
}

// decodeBody parses a JSON request body into dst. Returns false after writing
// a 400 when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope.Fail("invalid JSON body"))
		return false
	}
	return true
}

// writeEnvelope writes a canonical envelope with the given status code.
func writeEnvelope(w http.ResponseWriter, status int, env envelope.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// writeError writes an error envelope with the given status code.
func writeError(w http.ResponseWriter, message string, code int) {
	writeEnvelope(w, code, envelope.Fail(message))
}

// writeJSON writes an arbitrary payload as JSON. Pages and health use this;
// proxied endpoints go through writeEnvelope.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
