// ABOUTME: Browser-facing pages served by the gateway
// ABOUTME: Embedded login, dashboard, and API docs HTML

package handlers

import (
	"embed"
	"net/http"
)

//go:embed web
var webFS embed.FS

func servePage(w http.ResponseWriter, name string) {
	page, err := webFS.ReadFile("web/" + name)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// LoginPage serves the login form. Guarded in the route table so a browser
// that already holds a session cookie is sent to the dashboard instead.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	servePage(w, "login.html")
}

// DashboardPage serves the single-page dashboard.
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	servePage(w, "dashboard.html")
}

// DocsPage serves the interactive API documentation backed by the embedded
// OpenAPI document.
func (h *Handler) DocsPage(w http.ResponseWriter, r *http.Request) {
	servePage(w, "docs.html")
}

// Index routes the bare domain to the dashboard; the page guard bounces
// unauthenticated browsers on to /login from there.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
