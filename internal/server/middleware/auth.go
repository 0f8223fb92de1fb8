// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for the authenticated identity.
const identityKey ContextKey = "identity"

// TokenVerifier validates a bearer token and returns the identity it names.
type TokenVerifier interface {
	Verify(tokenString string) (uuid.UUID, error)
}

// Auth creates middleware that validates bearer tokens and adds the
// authenticated identity to the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "Bearer" prefix is matched case-insensitively
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity extracts the authenticated identity from the request context.
func Identity(r *http.Request) (uuid.UUID, error) {
	identity, ok := r.Context().Value(identityKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("identity not found in request context")
	}
	return identity, nil
}

// WithIdentity returns a context carrying the given identity (for tests).
func WithIdentity(ctx context.Context, identity uuid.UUID) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
