// ABOUTME: User management endpoints proxied to the upstream API
// ABOUTME: List, create, update, delete, activation toggle, and self-service

package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/samuelikz/tokenboard/envelope"
	"github.com/samuelikz/tokenboard/models"
)

// ListUsers returns all users as a canonical array.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, "/users", nil, envelope.List)
}

// CreateUser creates a user. Role defaults upstream to USER when omitted.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, "name, email and password are required", http.StatusBadRequest)
		return
	}

	h.forward(w, r, http.MethodPost, "/users", req, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status, "user")
	})
}

// DeleteUser removes a user identified by the request body.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID models.FlexID `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, "id is required", http.StatusBadRequest)
		return
	}

	h.forward(w, r, http.MethodDelete, "/users", req, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status, "user")
	})
}

// UpdateUser applies a partial update to the user in the path. The body is
// passed through as-is after a syntax check; upstream owns field validation.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if !decodeBody(w, r, &patch) {
		return
	}

	id := url.PathEscape(r.PathValue("id"))
	h.forward(w, r, http.MethodPatch, "/users/"+id, patch, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status, "user")
	})
}

// ToggleUser flips the active flag of the user in the path. The body is
// optional: {"isActive": bool} requests an explicit state; an empty or
// malformed body leaves the decision to upstream (blind toggle).
func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	var body any
	var parsed map[string]any
	if err := json.NewDecoder(r.Body).Decode(&parsed); err == nil && parsed != nil {
		body = parsed
	}

	id := url.PathEscape(r.PathValue("id"))
	h.forward(w, r, http.MethodPatch, "/users/"+id+"/toggle", body, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status, "user")
	})
}

// UpdateMyProfile updates the authenticated user's own name and email.
func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	h.forward(w, r, http.MethodPatch, "/users/me/profile", req, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status, "user")
	})
}

// ChangeMyPassword changes the authenticated user's password.
func (h *Handler) ChangeMyPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword,omitempty"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeError(w, "newPassword is required", http.StatusBadRequest)
		return
	}

	h.forward(w, r, http.MethodPatch, "/users/me/password", req, func(body []byte, status int) envelope.Envelope {
		return envelope.Entity(body, status)
	})
}
