package profiles

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/auth"
	"github.com/umtlostfound/lostfound-backend/pkg/db"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

const fallbackFirstName = "Campus"

type repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service resolves authenticated callers to their profile rows.
type Service struct {
	repo repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{repo: repo, logg: logg, now: time.Now}, nil
}

// EnsureFromClaims returns the caller's profile, creating it the first time a
// subject is seen. last_login is refreshed on every call.
func (s *Service) EnsureFromClaims(ctx context.Context, claims *auth.AccessTokenClaims) (*models.Profile, error) {
	if claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token claims")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject")
	}

	profile, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
	case db.IsNotFound(err):
		profile, err = s.create(ctx, id, claims)
		if err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, id, now); err != nil {
		s.logg.WarnErr(s.logg.WithUserID(ctx, id.String()), "profiles.last_login_failed", err)
	} else {
		profile.LastLogin = &now
	}
	return profile, nil
}

func (s *Service) create(ctx context.Context, id uuid.UUID, claims *auth.AccessTokenClaims) (*models.Profile, error) {
	first, last := claims.DisplayName()
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if first == "" {
		first = emailLocalPart(email)
	}
	if first == "" {
		first = fallbackFirstName
	}

	profile := &models.Profile{
		ID:            id,
		FirstName:     first,
		LastName:      last,
		UserType:      claims.UserType(),
		AccountStatus: enums.AccountStatusActive,
	}
	if email != "" {
		profile.Email = &email
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		// Two first requests can race; the loser reads the winner's row.
		if db.IsUniqueViolation(err, "") {
			existing, findErr := s.repo.FindByID(ctx, id)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
	}
	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "profiles.created")
	return profile, nil
}

// Get loads a profile by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return profile, nil
}

func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}
