package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboardhq/taskboard-api/internal/api/shared"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/mocks"
	"github.com/taskboardhq/taskboard-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	validClaims := &auth.Claims{
		UserID: userID,
		Roles:  []domain.Role{domain.RoleUser},
	}

	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		wantStatus  int
		wantNext    bool
	}{
		{
			name:       "valid bearer token",
			authHeader: "Bearer valid-token",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token part",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer expired-token",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer garbage",
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{
				Claims:      validClaims,
				ValidateErr: tt.validateErr,
			}
			middleware := NewAuthMiddleware(jwtService)

			nextCalled := false
			var gotPrincipal auth.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotPrincipal, _ = GetPrincipal(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantNext, nextCalled)

			if tt.wantNext {
				assert.Equal(t, userID, gotPrincipal.UserID)
				assert.True(t, gotPrincipal.HasRole(domain.RoleUser))
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := NewAuthMiddleware(&mocks.MockJWTService{})

	t.Run("admin passes through", func(t *testing.T) {
		t.Parallel()
		principal := auth.Principal{
			UserID: uuid.New(),
			Roles:  []domain.Role{domain.RoleUser, domain.RoleAdmin},
		}
		req := httptest.NewRequest("GET", "/auth/admin", nil)
		req = req.WithContext(
			context.WithValue(req.Context(), shared.PrincipalContextKey, principal),
		)
		recorder := httptest.NewRecorder()

		middleware.RequireAdmin(next).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		t.Parallel()
		principal := auth.Principal{UserID: uuid.New(), Roles: []domain.Role{domain.RoleUser}}
		req := httptest.NewRequest("GET", "/auth/admin", nil)
		req = req.WithContext(
			context.WithValue(req.Context(), shared.PrincipalContextKey, principal),
		)
		recorder := httptest.NewRecorder()

		middleware.RequireAdmin(next).ServeHTTP(recorder, req)

		require.Equal(t, http.StatusForbidden, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Admin role required", resp.Error)
	})

	t.Run("unauthenticated request is unauthorized", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/auth/admin", nil)
		recorder := httptest.NewRecorder()

		middleware.RequireAdmin(next).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
