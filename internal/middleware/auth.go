// Package middleware contains the HTTP middleware of the bookstore service.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/itlitshop/bookstore-api/internal/token"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID    string
	Email string
}

// AuthMiddleware guards protected routes by validating bearer tokens.
type AuthMiddleware struct {
	tokens *token.Manager
}

// NewAuthMiddleware creates an AuthMiddleware backed by the given token manager.
func NewAuthMiddleware(tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Middleware extracts the Authorization header, validates the bearer token and
// attaches the decoded identity to the request context. The "Bearer " prefix
// is matched case-sensitively.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, "Missing or invalid token")
			return
		}

		claims, err := a.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		identity := Identity{ID: claims.UserID, Email: claims.Email}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentityFromContext extracts the authenticated identity from the request context.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
