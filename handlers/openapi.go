// ABOUTME: Handler for serving the OpenAPI specification
// ABOUTME: Embeds openapi.json at compile time and stamps the live server URL

package handlers

import (
	_ "embed"
	"net/http"

	"github.com/tidwall/sjson"
)

//go:embed openapi.json
var openapiSpec []byte

// OpenAPISpec serves the embedded OpenAPI document. The servers entry is
// rewritten once to point at this deployment so the docs page's try-it-out
// calls hit the gateway instead of a placeholder host.
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	h.specOnce.Do(func() {
		stamped, err := sjson.SetBytes(openapiSpec, "servers.0.url", "/api/v1")
		if err == nil {
			h.stampedSpec = stamped
		} else {
			h.stampedSpec = openapiSpec
		}
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write(h.stampedSpec)
}
