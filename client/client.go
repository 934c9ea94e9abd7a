// ABOUTME: HTTP client for the Tokenboard gateway API
// ABOUTME: Persists the session cookie on disk and decodes canonical envelopes

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samuelikz/tokenboard/models"
	"github.com/samuelikz/tokenboard/session"
)

// Client is the API client for the Tokenboard gateway.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	sessionPath string
	cookieName  string
	token       string
}

// New creates a client and loads any persisted session token.
func New(baseURL string) (*Client, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve config directory: %w", err)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		sessionPath: filepath.Join(configDir, "tokenboard", "session"),
		cookieName:  session.DefaultCookieName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	// Session file: cookie name on the first line, token on the second.
	// A single-line file is a bare token under the default cookie name.
	if data, err := os.ReadFile(c.sessionPath); err == nil {
		lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
		if len(lines) == 2 {
			c.cookieName = strings.TrimSpace(lines[0])
			c.token = strings.TrimSpace(lines[1])
		} else {
			c.token = lines[0]
		}
	}
	return c, nil
}

// LoggedIn reports whether a session token is loaded.
func (c *Client) LoggedIn() bool { return c.token != "" }

// Claims decodes the persisted session token for display. Returns an error
// when no session exists or the token is malformed.
func (c *Client) Claims() (*session.Claims, error) {
	if c.token == "" {
		return nil, fmt.Errorf("not logged in; run login first")
	}
	return session.DecodeClaims(c.token)
}

// envelope mirrors the gateway's canonical response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do sends one request and decodes the envelope, returning the data payload.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, fmt.Errorf("request canceled")
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("request timed out")
		}
		return nil, fmt.Errorf("cannot connect to gateway at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("session expired or not logged in; run login again")
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("invalid response from gateway: %w", err)
	}
	if !env.Success {
		if env.Error != nil && env.Error.Message != "" {
			return nil, fmt.Errorf("gateway error: %s", env.Error.Message)
		}
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return env.Data, nil
}

// Login authenticates and persists the session cookie the gateway sets.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot connect to gateway at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != nil {
			return fmt.Errorf("login failed: %s", env.Error.Message)
		}
		return fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	// The gateway's cookie name is configurable; take whatever session
	// cookie it set rather than assuming the default.
	for _, cookie := range resp.Cookies() {
		if cookie.Value != "" {
			c.cookieName = cookie.Name
			c.token = cookie.Value
			return c.saveSession()
		}
	}
	return fmt.Errorf("gateway did not set a session cookie")
}

// Logout clears the gateway session and removes the persisted token.
func (c *Client) Logout(ctx context.Context) error {
	// Best effort against the gateway; the local file is authoritative.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/logout", nil)
	if err == nil {
		if resp, err := c.httpClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	c.token = ""
	if err := os.Remove(c.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(c.sessionPath, []byte(c.cookieName+"\n"+c.token), 0o600); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Me fetches the authenticated user's record.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}
	return &user, nil
}

// Users fetches all users.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/users", nil)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("invalid users payload: %w", err)
	}
	return users, nil
}

// Tokens fetches the caller's own tokens.
func (c *Client) Tokens(ctx context.Context) ([]models.APIToken, error) {
	return c.tokenList(ctx, "/api/v1/tokens")
}

// AllTokens fetches every token in the system (admin only).
func (c *Client) AllTokens(ctx context.Context) ([]models.APIToken, error) {
	return c.tokenList(ctx, "/api/v1/tokens/all")
}

func (c *Client) tokenList(ctx context.Context, path string) ([]models.APIToken, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var tokens []models.APIToken
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("invalid tokens payload: %w", err)
	}
	return tokens, nil
}

// CreateToken mints a token and returns it with the one-time plaintext key.
func (c *Client) CreateToken(ctx context.Context, input models.CreateTokenRequest) (*models.TokenCreated, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/tokens", input)
	if err != nil {
		return nil, err
	}
	var created models.TokenCreated
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("invalid token payload: %w", err)
	}
	return &created, nil
}

// RevokeToken revokes a token by ID.
func (c *Client) RevokeToken(ctx context.Context, tokenID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/tokens", map[string]string{"tokenId": tokenID})
	return err
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, input models.CreateUserRequest) (*models.User, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/users", input)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a user by ID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/users", map[string]string{"id": id})
	return err
}

// ToggleUser flips a user's active flag and returns the updated record.
func (c *Client) ToggleUser(ctx context.Context, id string) (*models.User, error) {
	data, err := c.do(ctx, http.MethodPatch, "/api/v1/users/"+id+"/toggle", nil)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}
	return &user, nil
}

// SetUserRole promotes or demotes a user.
func (c *Client) SetUserRole(ctx context.Context, id, role string) (*models.User, error) {
	data, err := c.do(ctx, http.MethodPatch, "/api/v1/users/"+id, map[string]string{"role": role})
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}
	return &user, nil
}

// UpdateMyProfile updates the caller's own name and email. Empty fields are
// omitted from the patch.
func (c *Client) UpdateMyProfile(ctx context.Context, name, email string) (*models.User, error) {
	patch := map[string]string{}
	if name != "" {
		patch["name"] = name
	}
	if email != "" {
		patch["email"] = email
	}
	data, err := c.do(ctx, http.MethodPatch, "/api/v1/users/me/profile", patch)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}
	return &user, nil
}

// ChangeMyPassword changes the caller's own password.
func (c *Client) ChangeMyPassword(ctx context.Context, current, newPassword string) error {
	body := map[string]string{"newPassword": newPassword}
	if current != "" {
		body["currentPassword"] = current
	}
	_, err := c.do(ctx, http.MethodPatch, "/api/v1/users/me/password", body)
	return err
}

// Dashboard bundles the lists the browse view renders.
type Dashboard struct {
	Users  []models.User
	Tokens []models.APIToken
}

// LoadDashboard fetches users and tokens in parallel. Tokens come from the
// admin-wide endpoint when the bearer is allowed, otherwise from the caller's
// own list.
func (c *Client) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := c.Users(ctx)
		if err != nil {
			return err
		}
		d.Users = users
		return nil
	})
	g.Go(func() error {
		tokens, err := c.AllTokens(ctx)
		if err != nil {
			// Non-admin bearers fall back to their own tokens.
			tokens, err = c.Tokens(ctx)
			if err != nil {
				return err
			}
		}
		d.Tokens = tokens
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
