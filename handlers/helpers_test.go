// ABOUTME: Shared test fixtures for gateway handler tests
// ABOUTME: Builds a handler wired to a mock upstream server

package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samuelikz/tokenboard/cache"
	"github.com/samuelikz/tokenboard/session"
	"github.com/samuelikz/tokenboard/upstream"
)

// newTestHandler wires a handler to the given mock upstream URL.
func newTestHandler(t *testing.T, upstreamURL string) *Handler {
	t.Helper()
	return NewHandler(
		session.NewStore("accessToken", false),
		upstream.New(upstreamURL, 5*time.Second),
		cache.New(30*time.Second),
	)
}

// envelopeBody decodes a recorded response into the generic envelope shape.
func envelopeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

// errorMessage extracts error.message from a decoded envelope.
func errorMessage(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	msg, _ := errObj["message"].(string)
	return msg
}
