// ABOUTME: Tests for authentication handlers
// ABOUTME: Verifies login token extraction, cookie lifecycle, and /me proxying

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestLogin(t *testing.T) {
	var upstreamCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Login must not forward an Authorization header")
		}

		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "ana@example.com" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"access_token": "tok-xyz"}})
	}))
	defer srv.Close()

	h := newTestHandler(t, srv.URL)

	t.Run("sets cookie on success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"s3cret"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		cookies := rr.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != "accessToken" {
			t.Fatalf("Expected accessToken cookie, got %v", cookies)
		}
		if cookies[0].Value != "tok-xyz" {
			t.Errorf("cookie value = %q, want tok-xyz", cookies[0].Value)
		}
		if !cookies[0].HttpOnly {
			t.Error("cookie should be HttpOnly")
		}
		if strings.Contains(rr.Body.String(), "tok-xyz") {
			t.Error("token must not appear in the response body")
		}
	})

	t.Run("rejects missing fields without calling upstream", func(t *testing.T) {
		before := upstreamCalls.Load()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"ana@example.com"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}
		if upstreamCalls.Load() != before {
			t.Error("Upstream should not be called for invalid input")
		}
	})

	t.Run("relays upstream 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"mallory@example.com","password":"guess"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d", rr.Code)
		}
		if msg := errorMessage(envelopeBody(t, rr)); msg != "invalid credentials" {
			t.Errorf("error.message = %q, want %q", msg, "invalid credentials")
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Error("No cookie should be set on failed login")
		}
	})
}

func TestLogin_TokenFieldVariants(t *testing.T) {
	for _, body := range []string{
		`{"data":{"access_token":"tok-1"}}`,
		`{"access_token":"tok-1"}`,
		`{"token":"tok-1"}`,
		`{"data":{"accessToken":"tok-1"}}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		h := newTestHandler(t, srv.URL)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"a@b.c","password":"p"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)
		srv.Close()

		if rr.Code != http.StatusOK {
			t.Errorf("body %s: expected 200, got %d", body, rr.Code)
			continue
		}
		cookies := rr.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Value != "tok-1" {
			t.Errorf("body %s: cookie = %v, want tok-1", body, cookies)
		}
	}
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"expires_in":3600}}`))
	}))
	defer srv.Close()

	h := newTestHandler(t, srv.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"p"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 when upstream omits the token, got %d", rr.Code)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("No cookie should be set when no token was extracted")
	}
}

func TestLogin_UpstreamDown(t *testing.T) {
	h := newTestHandler(t, "http://127.0.0.1:1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"p"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
	body := envelopeBody(t, rr)
	if body["success"] != false {
		t.Error("success should be false")
	}
}

func TestLogout(t *testing.T) {
	// Upstream must never be contacted; point at a dead address to prove it.
	h := newTestHandler(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("Expected expired cookie, got %v", cookies)
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	h := newTestHandler(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	// Logout is idempotent; no session is still success.
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-me" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/me" {
			http.NotFound(w, r)
			return
		}
		// Upstream wraps the record under "user" rather than "data".
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": "7", "name": "Ana", "role": "ADMIN"},
		})
	}))
	defer srv.Close()

	h := newTestHandler(t, srv.URL)

	t.Run("normalizes user alias", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok-me"})
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		body := envelopeBody(t, rr)
		data, _ := body["data"].(map[string]any)
		if data["name"] != "Ana" {
			t.Errorf("data.name = %v, want Ana", data["name"])
		}
	})

	t.Run("returns 401 without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rr.Code)
		}
	})
}
