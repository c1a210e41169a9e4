package middleware

import (
	"context"

	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxProfile contextKey = "profile"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// ProfileFromContext returns the caller's profile, or nil for anonymous requests.
func ProfileFromContext(ctx context.Context) *models.Profile {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxProfile).(*models.Profile); ok {
		return v
	}
	return nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithProfile injects the caller's profile and its id.
func WithProfile(ctx context.Context, profile *models.Profile) context.Context {
	if profile == nil {
		return ctx
	}
	ctx = WithUserID(ctx, profile.ID.String())
	return context.WithValue(ctx, ctxProfile, profile)
}
