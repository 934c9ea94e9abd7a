// ABOUTME: Canonical response envelope and upstream body normalization
// ABOUTME: Maps heterogeneous upstream JSON shapes to {success, data} / {success, error}

package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Error is the canonical error body.
type Error struct {
	Message string `json:"message"`
}

// Envelope is the one response shape every gateway endpoint returns,
// regardless of what shape upstream produced.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data json.RawMessage) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail wraps a message in an error envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: &Error{Message: message}}
}

// accessTokenFields are the historical field-name variants upstream has used
// for the login token. First present non-empty value wins.
var accessTokenFields = []string{
	"data.access_token",
	"access_token",
	"data.token",
	"token",
	"data.accessToken",
	"accessToken",
}

// parse returns the body as a gjson result, substituting an empty object for
// missing or non-JSON bodies. Upstream returning non-JSON is not an error.
func parse(body []byte) gjson.Result {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return gjson.Parse("{}")
	}
	return gjson.ParseBytes(body)
}

// Message extracts the error message from an upstream error body, preferring
// a nested error.message, then a top-level message, then a generic fallback
// naming the status code.
func Message(body []byte, status int) string {
	g := parse(body)
	if m := g.Get("error.message"); m.Type == gjson.String && m.Str != "" {
		return m.Str
	}
	if m := g.Get("message"); m.Type == gjson.String && m.Str != "" {
		return m.Str
	}
	return fmt.Sprintf("upstream request failed with status %d", status)
}

// Entity normalizes an upstream response that semantically carries a single
// entity. Field aliases are tried in order: "data", then each entity-named
// alias, then the raw body itself.
func Entity(body []byte, status int, aliases ...string) Envelope {
	if !is2xx(status) {
		return Fail(Message(body, status))
	}

	g := parse(body)
	for _, field := range append([]string{"data"}, aliases...) {
		if v := g.Get(field); v.Exists() && v.Type != gjson.Null {
			return OK(json.RawMessage(v.Raw))
		}
	}
	return OK(json.RawMessage(g.Raw))
}

// List normalizes an upstream response that semantically carries a list.
// Accepts {items:[...]}, {data:[...]}, or a bare array; anything else yields
// an empty array. List endpoints never propagate null.
func List(body []byte, status int) Envelope {
	if !is2xx(status) {
		return Fail(Message(body, status))
	}

	g := parse(body)
	if items := g.Get("items"); items.IsArray() {
		return OK(json.RawMessage(items.Raw))
	}
	if data := g.Get("data"); data.IsArray() {
		return OK(json.RawMessage(data.Raw))
	}
	if g.IsArray() {
		return OK(json.RawMessage(g.Raw))
	}
	return OK(json.RawMessage("[]"))
}

// AccessToken probes the login response for the session token across the
// field-name variants upstream has shipped. Returns "" when none is present.
func AccessToken(body []byte) string {
	g := parse(body)
	for _, field := range accessTokenFields {
		if v := g.Get(field); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
