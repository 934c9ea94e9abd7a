// ABOUTME: JSON error response helper for middleware
// ABOUTME: Ensures middleware error responses match the API's envelope format

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/samuelikz/tokenboard/envelope"
)

// writeJSONError writes an error response in the canonical envelope with the
// given status code. Matches the format used by handlers.writeError so that
// clients see one error shape no matter which layer rejected the request.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope.Fail(message))
}
