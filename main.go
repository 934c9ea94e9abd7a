// ABOUTME: Entry point for the Tokenboard gateway service
// ABOUTME: Serves the dashboard pages and the session-cookie API proxy

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/samuelikz/tokenboard/cache"
	"github.com/samuelikz/tokenboard/config"
	"github.com/samuelikz/tokenboard/handlers"
	"github.com/samuelikz/tokenboard/logger"
	"github.com/samuelikz/tokenboard/middleware"
	"github.com/samuelikz/tokenboard/session"
	"github.com/samuelikz/tokenboard/upstream"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Tokenboard gateway", "env", cfg.Env)
	slog.Info("Upstream configured", "url", cfg.UpstreamBaseURL, "timeout_s", cfg.UpstreamTimeout)
	if !cfg.CookieSecure {
		slog.Warn("Session cookie Secure flag disabled; acceptable in development only")
	}

	// Initialize shared state
	c := cache.New(time.Duration(cfg.HealthTTL) * time.Second)
	sessions := session.NewStore(cfg.CookieName, cfg.CookieSecure)
	client := upstream.New(cfg.UpstreamBaseURL, time.Duration(cfg.UpstreamTimeout)*time.Second)
	h := handlers.NewHandler(sessions, client, c)

	// Rate limiters per category. Auth endpoints get the tightest budget
	// because they are the credential guessing surface.
	var authLimiter, writeLimiter, defaultLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.RateLimitAuth, time.Minute)
		writeLimiter = middleware.NewRateLimiter(cfg.RateLimitWrite, time.Minute)
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		slog.Info("Rate limiting enabled",
			"auth_per_min", cfg.RateLimitAuth,
			"write_per_min", cfg.RateLimitWrite,
			"default_per_min", cfg.RateLimitDefault,
		)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	limiterFor := func(category string) *middleware.RateLimiter {
		switch category {
		case handlers.LimitAuth:
			return authLimiter
		case handlers.LimitWrite:
			return writeLimiter
		default:
			return defaultLimiter
		}
	}

	sessionKey := middleware.SessionKey(cfg.CookieName)
	cors := middleware.CORS(cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()

	// API routes
	for _, route := range h.Routes() {
		// Login has no session yet; key its limiter by client IP.
		keyFunc := sessionKey
		if route.Limit == handlers.LimitAuth {
			keyFunc = middleware.ClientIP
		}
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(
			route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiterFor(route.Limit), keyFunc),
		))
	}

	// Browser pages with cookie-presence guards
	for _, route := range h.PageRoutes() {
		handler := route.Handler
		switch route.Path {
		case "/login":
			handler = middleware.Chain(handler,
				middleware.LogRequest,
				middleware.RedirectAuthenticated(cfg.CookieName),
			)
		case "/dashboard", "/dashboard/docs":
			handler = middleware.Chain(handler,
				middleware.LogRequest,
				middleware.RequireSession(cfg.CookieName),
			)
		default:
			handler = middleware.Chain(handler, middleware.LogRequest)
		}
		mux.HandleFunc(route.Method+" "+route.Path, handler)
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
