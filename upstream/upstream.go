// ABOUTME: HTTP client for the upstream token management API
// ABOUTME: Forwards bearer credentials and captures raw responses for normalization

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Response is the captured upstream reply. Body is the raw payload; JSON
// reports whether it parses as JSON.
type Response struct {
	Status int
	Body   []byte
	JSON   bool
}

// Client talks to the upstream REST API. It never follows redirects on
// mutating verbs; an upstream 307 on PATCH or DELETE means the request path
// was wrong, and silently replaying the mutation elsewhere is worse than
// failing loudly.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the given base URL. Trailing slashes are trimmed
// so path joining stays predictable.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				switch via[0].Method {
				case http.MethodPatch, http.MethodDelete:
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request upstream. body, when non-nil, is JSON-encoded. token,
// when non-empty, is forwarded as a bearer credential. Any HTTP status is a
// successful call; err is non-nil only for transport failures.
func (c *Client) Do(ctx context.Context, method, path string, body any, token string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	// Body read is best-effort; a truncated error page should not mask the
	// status code we already have.
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 10<<20))

	return &Response{
		Status: resp.StatusCode,
		Body:   payload,
		JSON:   json.Valid(payload),
	}, nil
}

// Redirected reports whether the response is a redirect that was deliberately
// not followed.
func (r *Response) Redirected() bool {
	return r.Status == http.StatusTemporaryRedirect ||
		r.Status == http.StatusFound ||
		r.Status == http.StatusMovedPermanently
}
