package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/withu0/pishatto-engine/internal/domain"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := &JWTService{}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := r.Context().Value(ActorIDKey).(int)
		assert.True(t, ok)
		assert.Equal(t, 123, actorID)
		actorType, ok := r.Context().Value(ActorTypeKey).(string)
		assert.True(t, ok)
		assert.Equal(t, domain.ActorCast, actorType)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name         string
		authHeader   func() string
		expectedCode int
	}{
		{
			name: "Valid token",
			authHeader: func() string {
				token, _ := jwtService.GenerateJWT(123, domain.ActorCast, time.Now().Add(time.Hour))
				return "Bearer " + token
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Missing header",
			authHeader:   func() string { return "" },
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Missing bearer prefix",
			authHeader:   func() string { return "Token abc" },
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Invalid token",
			authHeader:   func() string { return "Bearer invalid.token.string" },
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "Expired token",
			authHeader: func() string {
				token, _ := jwtService.GenerateJWT(123, domain.ActorCast, time.Now().Add(-time.Hour))
				return "Bearer " + token
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header := tt.authHeader(); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestRequireType(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name         string
		contextType  any
		expectedCode int
	}{
		{
			name:         "Matching type",
			contextType:  domain.ActorCast,
			expectedCode: http.StatusOK,
		},
		{
			name:         "Wrong type",
			contextType:  domain.ActorGuest,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "No type in context",
			contextType:  nil,
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.contextType != nil {
				ctx := context.WithValue(req.Context(), ActorTypeKey, tt.contextType.(string))
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			RequireType(domain.ActorCast)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}
