package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/api/middleware"
	"github.com/umtlostfound/lostfound-backend/api/validators"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
)

// callerID returns the authenticated user's id.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// callerProfile returns the authenticated user's profile.
func callerProfile(r *http.Request) (*models.Profile, error) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return profile, nil
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return validators.ParseUUIDParam(chiParam(r, name), name)
}
