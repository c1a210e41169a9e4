package messages

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/internal/claims"
	"github.com/umtlostfound/lostfound-backend/internal/notifications"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
	"github.com/umtlostfound/lostfound-backend/pkg/pagination"
)

const maxBodyLength = 1000

// ClaimReader returns a claim only to its participants.
type ClaimReader interface {
	Get(ctx context.Context, userID, claimID uuid.UUID) (*claims.Claim, error)
}

// Notifier queues notifications without waiting on them.
type Notifier interface {
	NotifyAsync(ctx context.Context, in notifications.Input)
}

// ListParams selects one page of a claim conversation.
type ListParams struct {
	UserID  uuid.UUID
	ClaimID uuid.UUID
	Limit   int
	Cursor  string
}

// ListResult is one page of messages and the cursor for the next.
type ListResult struct {
	Items  []models.Message `json:"items"`
	Cursor string           `json:"cursor"`
}

// Service implements the claimer/owner conversation attached to each claim.
type Service struct {
	repo     Repository
	claims   ClaimReader
	notifier Notifier
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, claimReader ClaimReader, notifier Notifier, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "messages repository required")
	}
	if claimReader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "claims reader required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{repo: repo, claims: claimReader, notifier: notifier, logg: logg, now: time.Now}, nil
}

// List pages the conversation newest first and marks the other participant's
// messages as read.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	claim, err := s.claims.Get(ctx, params.UserID, params.ClaimID)
	if err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, claim.ID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list messages")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(m models.Message) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	if rows == nil {
		rows = []models.Message{}
	}

	if _, err := s.repo.MarkReadFrom(ctx, claim.ID, claim.Counterpart(params.UserID)); err != nil {
		s.logg.WarnErr(s.logg.WithField(ctx, "claim_id", claim.ID.String()), "messages.mark_read_failed", err)
	}
	return &ListResult{Items: rows, Cursor: next}, nil
}

// Send appends a message to the conversation and notifies the other participant.
func (s *Service) Send(ctx context.Context, userID, claimID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > maxBodyLength {
		return nil, pkgerrors.Validation("invalid message", map[string]string{
			"body": fmt.Sprintf("must be between 1 and %d characters", maxBodyLength),
		})
	}
	claim, err := s.claims.Get(ctx, userID, claimID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ID:             uuid.New(),
		ClaimRequestID: claim.ID,
		SenderID:       userID,
		Body:           body,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send message")
	}

	s.notifier.NotifyAsync(ctx, notifications.Input{
		UserID:         claim.Counterpart(userID),
		Type:           enums.NotificationTypeNewMessage,
		Title:          "New Message",
		Message:        fmt.Sprintf("New message about %q", claim.ItemTitle),
		RelatedItemID:  &claim.ItemID,
		RelatedClaimID: &claim.ID,
	})
	return message, nil
}
