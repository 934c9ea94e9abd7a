// ABOUTME: Session credential store backed by an HTTP-only cookie
// ABOUTME: Resolves, writes, and clears the bearer token; decodes claims for display

package session

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName matches the cookie the original deployment used.
const DefaultCookieName = "accessToken"

// maxAgeSeconds is the session cookie lifetime (1 hour).
const maxAgeSeconds = 3600

// Store reads and writes the session cookie. It holds no per-request state;
// the cookie is the only place session state lives.
type Store struct {
	cookieName string
	secure     bool
}

// NewStore creates a cookie store. An empty cookieName falls back to
// DefaultCookieName. secure controls the cookie Secure attribute and should
// be true in production deployments.
func NewStore(cookieName string, secure bool) *Store {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Store{cookieName: cookieName, secure: secure}
}

// CookieName returns the configured cookie identifier.
func (s *Store) CookieName() string { return s.cookieName }

// Token resolves the session credential from the request's cookie jar.
// Returns "" when absent. Never fails.
func (s *Store) Token(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set writes the session cookie. Only the login endpoint calls this.
func (s *Store) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
	})
}

// Clear removes the session cookie. Only the logout endpoint calls this.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Claims is the decoded session token payload. It feeds display and
// role-gating in clients only; authorization decisions belong to upstream.
type Claims struct {
	Name  string
	Email string
	Role  string
}

// DecodeClaims decodes the JWT payload without verifying the signature.
// The gateway has no key material for the upstream issuer; a forged token
// only forges what the user sees about themselves, upstream still rejects
// the bearer header.
func DecodeClaims(token string) (*Claims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed session token: %w", err)
	}

	c := &Claims{}
	if v, ok := claims["name"].(string); ok {
		c.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		c.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		c.Role = v
	}
	return c, nil
}
