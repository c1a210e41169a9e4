package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/internal/async"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

// Publisher delivers serialized events to an external topic.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// Input describes a notification addressed to one user.
type Input struct {
	UserID         uuid.UUID
	Type           enums.NotificationType
	Title          string
	Message        string
	RelatedItemID  *uuid.UUID
	RelatedClaimID *uuid.UUID
}

// Event is the JSON body published for every stored notification.
type Event struct {
	ID             uuid.UUID              `json:"id"`
	UserID         uuid.UUID              `json:"user_id"`
	Type           enums.NotificationType `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	RelatedItemID  *uuid.UUID             `json:"related_item_id,omitempty"`
	RelatedClaimID *uuid.UUID             `json:"related_claim_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Notifier persists notifications and fans them out to the topic.
type Notifier struct {
	repo      Repository
	publisher Publisher
	runner    async.Runner
	logg      *logger.Logger
	now       func() time.Time
}

// NewNotifier builds a Notifier. publisher may be nil when no topic is configured.
func NewNotifier(repo Repository, publisher Publisher, runner async.Runner, logg *logger.Logger) (*Notifier, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("async runner required")
	}
	return &Notifier{
		repo:      repo,
		publisher: publisher,
		runner:    runner,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Notify stores the notification and publishes it. The row is kept even when
// publishing fails.
func (n *Notifier) Notify(ctx context.Context, in Input) (*models.Notification, error) {
	if in.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification recipient required")
	}
	if !in.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown notification type %q", in.Type)
	}

	row := &models.Notification{
		ID:             uuid.New(),
		UserID:         in.UserID,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		RelatedItemID:  in.RelatedItemID,
		RelatedClaimID: in.RelatedClaimID,
		CreatedAt:      n.now().UTC(),
	}
	if err := n.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store notification")
	}

	if n.publisher == nil {
		return row, nil
	}
	payload, err := json.Marshal(Event{
		ID:             row.ID,
		UserID:         row.UserID,
		Type:           row.Type,
		Title:          row.Title,
		Message:        row.Message,
		RelatedItemID:  row.RelatedItemID,
		RelatedClaimID: row.RelatedClaimID,
		CreatedAt:      row.CreatedAt,
	})
	if err != nil {
		return row, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode notification event")
	}
	attrs := map[string]string{
		"type":    string(row.Type),
		"user_id": row.UserID.String(),
	}
	if err := n.publisher.Publish(ctx, payload, attrs); err != nil {
		return row, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish notification event")
	}
	return row, nil
}

// NotifyAsync hands Notify to the runner; the caller never sees the outcome.
func (n *Notifier) NotifyAsync(ctx context.Context, in Input) {
	n.runner.Go(ctx, "notify."+string(in.Type), func(taskCtx context.Context) error {
		_, err := n.Notify(taskCtx, in)
		return err
	})
}
