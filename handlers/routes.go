// ABOUTME: Declarative route table for API endpoints and pages
// ABOUTME: Defines all routes with their HTTP methods, handlers, and limits

package handlers

import "net/http"

// Rate limit categories. Each category maps to its own limiter in main.
const (
	LimitAuth    = "auth"    // credential guessing surface
	LimitWrite   = "write"   // mutating endpoints
	LimitDefault = "default" // everything else
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Limit   string           // Rate limit category
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Auth
		{Method: http.MethodPost, Path: "/api/v1/auth/login", Handler: h.Login, Limit: LimitAuth},
		{Method: http.MethodPost, Path: "/api/v1/auth/logout", Handler: h.Logout, Limit: LimitDefault},
		{Method: http.MethodGet, Path: "/api/v1/auth/me", Handler: h.Me, Limit: LimitDefault},

		// Users
		{Method: http.MethodGet, Path: "/api/v1/users", Handler: h.ListUsers, Limit: LimitDefault},
		{Method: http.MethodPost, Path: "/api/v1/users", Handler: h.CreateUser, Limit: LimitWrite},
		{Method: http.MethodDelete, Path: "/api/v1/users", Handler: h.DeleteUser, Limit: LimitWrite},
		{Method: http.MethodPatch, Path: "/api/v1/users/{id}", Handler: h.UpdateUser, Limit: LimitWrite},
		{Method: http.MethodPatch, Path: "/api/v1/users/{id}/toggle", Handler: h.ToggleUser, Limit: LimitWrite},
		{Method: http.MethodPatch, Path: "/api/v1/users/me/profile", Handler: h.UpdateMyProfile, Limit: LimitWrite},
		{Method: http.MethodPatch, Path: "/api/v1/users/me/password", Handler: h.ChangeMyPassword, Limit: LimitAuth},

		// Tokens
		{Method: http.MethodGet, Path: "/api/v1/tokens", Handler: h.ListTokens, Limit: LimitDefault},
		{Method: http.MethodPost, Path: "/api/v1/tokens", Handler: h.CreateToken, Limit: LimitWrite},
		{Method: http.MethodDelete, Path: "/api/v1/tokens", Handler: h.RevokeToken, Limit: LimitWrite},
		{Method: http.MethodGet, Path: "/api/v1/tokens/all", Handler: h.ListAllTokens, Limit: LimitDefault},

		// Health & Documentation
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health, Limit: LimitDefault},
		{Method: http.MethodGet, Path: "/api/v1/openapi.json", Handler: h.OpenAPISpec, Limit: LimitDefault},
	}
}

// PageRoutes returns the browser-facing page routes. The guard wiring lives
// in main so page middleware stays independent from API middleware.
func (h *Handler) PageRoutes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/{$}", Handler: h.Index},
		{Method: http.MethodGet, Path: "/login", Handler: h.LoginPage},
		{Method: http.MethodGet, Path: "/dashboard", Handler: h.DashboardPage},
		{Method: http.MethodGet, Path: "/dashboard/docs", Handler: h.DocsPage},
	}
}
