package controllers

import (
	"net/http"

	"github.com/umtlostfound/lostfound-backend/api/responses"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

// Me returns the caller's profile as loaded by the auth middleware.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := callerProfile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
