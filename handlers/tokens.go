// ABOUTME: API token endpoints proxied to the upstream service
// ABOUTME: Own-token listing, creation, revocation, and the admin-wide view

package handlers

import (
	"net/http"

	"github.com/samuelikz/tokenboard/envelope"
	"github.com/samuelikz/tokenboard/models"
)

// ListTokens returns the authenticated user's own tokens.
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, "/tokens", nil, envelope.List)
}

// ListAllTokens returns every token in the system. Upstream rejects the call
// for non-admin bearers; the gateway just relays that.
func (h *Handler) ListAllTokens(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, "/tokensall", nil, envelope.List)
}

// CreateToken mints a new API token. The response carries the plaintext key
// exactly once; it is never persisted on this side.
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Scope == "" {
		writeError(w, "scope is required", http.StatusBadRequest)
		return
	}

	h.forward(w, r, http.MethodPost, "/tokens", req, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status)
	})
}

// RevokeToken revokes the token identified by the request body.
func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenID models.FlexID `json:"tokenId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TokenID == "" {
		writeError(w, "tokenId is required", http.StatusBadRequest)
		return
	}

	h.forward(w, r, http.MethodDelete, "/tokens", req, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status)
	})
}
