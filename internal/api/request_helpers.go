package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/api/middleware"
	"github.com/taskboardhq/taskboard-api/internal/api/shared"
	"github.com/taskboardhq/taskboard-api/internal/service/auth"
)

// requirePrincipal extracts the authenticated principal from the request
// context, writing a 401 response if the auth middleware did not put one
// there. The bool result reports whether the caller may proceed.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok || principal.UserID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return auth.Principal{}, false
	}
	return principal, true
}

// pathUUID extracts and parses a UUID path parameter, writing a 400 response
// on a missing or malformed value. The bool result reports whether the
// caller may proceed.
func pathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		shared.RespondWithValidationErrors(w, r, []string{paramName + " is required"})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		shared.RespondWithValidationErrors(w, r, []string{paramName + " must be a valid UUID"})
		return uuid.Nil, false
	}

	return id, true
}
