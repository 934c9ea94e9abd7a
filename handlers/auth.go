// ABOUTME: Authentication endpoints: login, logout, and current user
// ABOUTME: Exchanges credentials for an upstream token held in the session cookie

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/samuelikz/tokenboard/envelope"
	"github.com/samuelikz/tokenboard/models"
)

// Login exchanges email and password for an upstream access token and stores
// it in the session cookie. The token itself never appears in the response
// body; the cookie is the only carrier.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	resp, err := h.upstream.Do(r.Context(), http.MethodPost, "/auth/login", req, "")
	if err != nil {
		slog.Error("Upstream login failed", "error", err)
		writeError(w, "failed to reach upstream service", http.StatusInternalServerError)
		return
	}

	if resp.Status < 200 || resp.Status >= 300 {
		writeEnvelope(w, resp.Status, envelope.Fail(envelope.Message(resp.Body, resp.Status)))
		return
	}

	token := envelope.AccessToken(resp.Body)
	if token == "" {
		slog.Error("Upstream login response carried no access token", "status", resp.Status)
		writeError(w, "upstream login response missing access token", http.StatusInternalServerError)
		return
	}

	h.sessions.Set(w, token)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie. Upstream is never contacted; the token
// simply stops being forwarded and expires on its own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated user's own record from upstream.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, "/me", nil, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status, "user")
	})
}
