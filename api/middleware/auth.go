package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/umtlostfound/lostfound-backend/api/responses"
	pkgAuth "github.com/umtlostfound/lostfound-backend/pkg/auth"
	"github.com/umtlostfound/lostfound-backend/pkg/config"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

// ProfileResolver turns verified token claims into the caller's profile,
// creating it on first sight.
type ProfileResolver interface {
	EnsureFromClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) (*models.Profile, error)
}

// Auth validates a bearer token and seeds the request context with the
// caller's profile.
func Auth(cfg config.JWTConfig, profiles ProfileResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, profiles, logg, true)
}

// OptionalAuth behaves like Auth when a token is present and lets anonymous
// requests through otherwise. A malformed token is still rejected.
func OptionalAuth(cfg config.JWTConfig, profiles ProfileResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, profiles, logg, false)
}

func authenticate(cfg config.JWTConfig, profiles ProfileResolver, logg *logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			profile, err := profiles.EnsureFromClaims(r.Context(), claims)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithProfile(r.Context(), profile)
			if logg != nil {
				ctx = logg.WithUserID(ctx, profile.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(raw string) string {
	token := strings.TrimSpace(raw)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
