package middleware

import (
	"context"
	"net/http"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/utils"
)

// AuthMiddleware validates the JWT and puts the principal on the
// context. Token claims are trusted without a DB round-trip; identity
// lives in the storefront's auth service.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid or missing token", http.StatusUnauthorized)
			return
		}

		user := &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
