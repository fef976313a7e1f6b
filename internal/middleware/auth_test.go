package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itlitshop/bookstore-api/internal/token"
)

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	tokens := token.NewManager("test-secret")
	m := NewAuthMiddleware(tokens)

	signed, err := tokens.Issue("user-42", "user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		identity, ok := GetIdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity not in context")
		}
		if identity.ID != "user-42" {
			t.Fatalf("identity.ID = %q, want %q", identity.ID, "user-42")
		}
		if identity.Email != "user@example.com" {
			t.Fatalf("identity.Email = %q, want %q", identity.Email, "user@example.com")
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	handler := m.Middleware(next)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_WithoutHeader(t *testing.T) {
	m := NewAuthMiddleware(token.NewManager("test-secret"))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)

	m.Middleware(next).ServeHTTP(w, r)

	res := w.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tokens := token.NewManager("test-secret")
	m := NewAuthMiddleware(tokens)

	signed, err := tokens.Issue("user-42", "user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Prefix match is case-sensitive and requires the exact "Bearer " form.
	for _, header := range []string{signed, "bearer " + signed, "Token " + signed, "Bearer"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", header)

		m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("next handler should not be called for header %q", header)
		})).ServeHTTP(w, r)

		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want %d", header, w.Result().StatusCode, http.StatusUnauthorized)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(token.NewManager("test-secret"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")

	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})).ServeHTTP(w, r)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
