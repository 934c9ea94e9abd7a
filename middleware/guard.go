// ABOUTME: Page guard middleware for browser-facing routes
// ABOUTME: Redirects between login and dashboard based on session cookie presence

package middleware

import "net/http"

// RequireSession redirects browsers without a session cookie to the login
// page. The check is presence-only: an expired or forged cookie still reaches
// the page, and the first API call from it comes back 401. Real enforcement
// happens upstream on every forwarded request.
func RequireSession(cookieName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(cookieName); err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next(w, r)
		}
	}
}

// RedirectAuthenticated sends browsers that already hold a session cookie
// from the login page to the dashboard.
func RedirectAuthenticated(cookieName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next(w, r)
		}
	}
}
