// ABOUTME: Health endpoint reporting gateway and upstream reachability
// ABOUTME: Probes upstream with a short cache so health polls stay cheap

package handlers

import (
	"log/slog"
	"net/http"
)

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Cached   bool   `json:"cached"`
}

const healthCacheKey = "health:upstream"

// Health reports whether the gateway can reach the upstream API. Any HTTP
// response counts as reachable, including 401; only transport failures do
// not. The probe result is cached so dashboards polling health do not hammer
// upstream.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(healthCacheKey); found {
		resp := cached.(HealthResponse)
		resp.Cached = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := HealthResponse{Status: "ok", Upstream: "ok"}
	if _, err := h.upstream.Do(r.Context(), http.MethodGet, "/health", nil, ""); err != nil {
		slog.Warn("Upstream health probe failed", "error", err)
		resp.Upstream = "unreachable"
	}

	h.cache.Set(healthCacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}
