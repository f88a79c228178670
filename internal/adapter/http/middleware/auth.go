package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/khata/internal/infrastructure/auth"
)

// ContextKey is the type for context keys set by middleware.
type ContextKey string

const (
	// OwnerContextKey is the context key for the authenticated owner ID.
	OwnerContextKey ContextKey = "owner_id"

	// EmailContextKey is the context key for the authenticated email.
	EmailContextKey ContextKey = "owner_email"
)

// Auth creates a middleware that requires a valid Bearer token and puts
// the owner identity on the request context. Every khata route sits
// behind this, so handlers can assume an owner ID is always present.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OwnerContextKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailContextKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerIDFromContext extracts the authenticated owner ID from context.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerContextKey).(string)
	return ownerID, ok && ownerID != ""
}

// EmailFromContext extracts the authenticated email from context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailContextKey).(string)
	return email, ok && email != ""
}
