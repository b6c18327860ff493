package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/withu0/pishatto-engine/pkg/utils"
)

type ContextKey string

const (
	ActorIDKey   ContextKey = "actorID"
	ActorTypeKey ContextKey = "actorType"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		jwtService := &JWTService{}
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), ActorIDKey, claims.ActorID)
		ctx = context.WithValue(ctx, ActorTypeKey, claims.ActorType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireType guards a route group to one actor type.
func RequireType(actorType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := r.Context().Value(ActorTypeKey).(string)
			if !ok || got != actorType {
				utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
