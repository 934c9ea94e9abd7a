// ABOUTME: Wire types shared by the gateway, the API client, and the reconciler
// ABOUTME: Users, API tokens, session claims, and request bodies

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Role values used by the upstream service.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Token scopes accepted by the upstream service.
const (
	ScopeRead      = "READ"
	ScopeWrite     = "WRITE"
	ScopeReadWrite = "READ_WRITE"
)

// FlexID is a resource identifier that upstream sends either as a JSON
// string or as a number, depending on the endpoint.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

func (id FlexID) String() string { return string(id) }

// User is a user record as the upstream service reports it.
// Timestamps stay as raw strings; upstream mixes RFC3339 and date-only forms.
type User struct {
	ID        FlexID `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// APIToken is an API token record as the upstream service reports it.
type APIToken struct {
	ID              FlexID `json:"id"`
	UserID          FlexID `json:"userId"`
	CreatedByUserID FlexID `json:"createdByUserId"`
	Scope           string `json:"scope"`
	IsActive        bool   `json:"isActive"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	RevokedAt       string `json:"revokedAt,omitempty"`
	Description     string `json:"description,omitempty"`
	CreatedByName   string `json:"createdByName,omitempty"`
	CreatedByEmail  string `json:"createdByEmail,omitempty"`
	OwnerName       string `json:"ownerName,omitempty"`
	OwnerEmail      string `json:"ownerEmail,omitempty"`
}

// Active reports whether the token is usable: flagged active and not revoked.
func (t APIToken) Active() bool {
	return t.IsActive && t.RevokedAt == ""
}

// TokenCreated is the one-time response payload of token creation.
// APIKey is visible exactly once and never stored by the gateway.
type TokenCreated struct {
	Token  APIToken `json:"token"`
	APIKey string   `json:"apiKey"`
}

// LoginRequest is the body accepted by the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest is the body accepted by the user-creation endpoint.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// CreateTokenRequest is the body accepted by the token-creation endpoint.
type CreateTokenRequest struct {
	Scope       string `json:"scope"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	Description string `json:"description,omitempty"`
}
