package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umtlostfound/lostfound-backend/internal/items"
	"github.com/umtlostfound/lostfound-backend/internal/notifications"
	"github.com/umtlostfound/lostfound-backend/pkg/db"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
	"github.com/umtlostfound/lostfound-backend/pkg/validation"
)

// ItemReader loads reports without applying visibility rules.
type ItemReader interface {
	Find(ctx context.Context, id uuid.UUID, itemType string) (*items.Item, error)
}

// Notifier queues notifications without waiting on them.
type Notifier interface {
	NotifyAsync(ctx context.Context, in notifications.Input)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Repository Repository
	Items      ItemReader
	ItemStore  items.Repository
	Tx         txRunner
	Notifier   Notifier
	Logger     *logger.Logger
}

// Service implements the claim lifecycle.
type Service struct {
	repo      Repository
	items     ItemReader
	itemStore items.Repository
	tx        txRunner
	notifier  Notifier
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Repository == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "claims repository required")
	case params.Items == nil || params.ItemStore == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "items dependencies required")
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	case params.Notifier == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	case params.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{
		repo:      params.Repository,
		items:     params.Items,
		itemStore: params.ItemStore,
		tx:        params.Tx,
		notifier:  params.Notifier,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

// Create files a pending claim on an active item owned by someone else and
// tells the owner about it.
func (s *Service) Create(ctx context.Context, claimerID uuid.UUID, input CreateInput) (*Claim, error) {
	input.Message = strings.TrimSpace(input.Message)
	input.ItemType = strings.ToLower(strings.TrimSpace(input.ItemType))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	itemID, _ := uuid.Parse(input.ItemID)

	item, err := s.items.Find(ctx, itemID, input.ItemType)
	if err != nil {
		return nil, err
	}
	if item.UserID == claimerID {
		return nil, pkgerrors.Validation("cannot claim your own item", map[string]string{"item_id": "owned by the claimer"})
	}
	if item.Status != string(enums.ItemStatusActive) {
		return nil, pkgerrors.Validation("item is not available for claiming", map[string]string{"item_id": "item is " + item.Status})
	}

	pending, err := s.repo.HasPending(ctx, claimerID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check pending claims")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a pending claim for this item already exists")
	}

	now := s.now().UTC()
	row := &models.ClaimRequest{
		ID:        uuid.New(),
		ItemID:    itemID,
		ItemType:  item.Type,
		ClaimerID: claimerID,
		Message:   input.Message,
		Status:    enums.ClaimStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		// The partial unique index catches a concurrent duplicate.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a pending claim for this item already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create claim")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"claim_id": row.ID.String(),
		"item_id":  itemID.String(),
	}), "claims.created")

	s.notifier.NotifyAsync(ctx, notifications.Input{
		UserID:         item.UserID,
		Type:           enums.NotificationTypeItemClaimed,
		Title:          "New Claim Request",
		Message:        fmt.Sprintf("Someone wants to claim your %s item: %s", item.Type, item.Title),
		RelatedItemID:  &itemID,
		RelatedClaimID: &row.ID,
	})
	return s.load(ctx, row.ID)
}

// List returns the caller's claims (role claimer) or the claims on the
// caller's items (role owner), newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, role string) ([]Claim, error) {
	parsed, err := enums.ParseClaimRole(role)
	if err != nil {
		return nil, pkgerrors.Validation("invalid role", map[string]string{"role": "must be one of [claimer owner]"})
	}

	var out []Claim
	if parsed == enums.ClaimRoleOwner {
		out, err = s.repo.ListByOwner(ctx, userID)
	} else {
		out, err = s.repo.ListByClaimer(ctx, userID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list claims")
	}
	return out, nil
}

// Get returns a claim to one of its two participants.
func (s *Service) Get(ctx context.Context, userID, claimID uuid.UUID) (*Claim, error) {
	claim, err := s.load(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !claim.IsParticipant(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this claim")
	}
	return claim, nil
}

// UpdateStatus lets the item owner approve, reject or complete a claim.
// Approving marks the item claimed and completing marks it resolved, in the
// same transaction as the claim change.
func (s *Service) UpdateStatus(ctx context.Context, ownerID, claimID uuid.UUID, input UpdateStatusInput) (*Claim, error) {
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	claim, err := s.load(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the item owner can update this claim")
	}

	next := enums.ClaimStatus(input.Status)
	if !claim.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "claim status transition not allowed").
			WithDetails(map[string]string{"from": string(claim.Status), "to": string(next)})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.WithTx(tx).UpdateStatus(ctx, claimID, claim.Status, next, input.OwnerNotes, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update claim status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "claim was modified concurrently")
		}

		itemStatus, ok := itemStatusFor(next)
		if !ok {
			return nil
		}
		if err := s.itemStore.WithTx(tx).SetStatus(ctx, claim.ItemType, claim.ItemID, itemStatus); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "claimed item no longer exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item status")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update claim status")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"claim_id": claimID.String(),
		"status":   string(next),
	}), "claims.status_changed")

	if notificationType, ok := enums.NotificationTypeForClaim(next); ok {
		s.notifier.NotifyAsync(ctx, notifications.Input{
			UserID:         claim.ClaimerID,
			Type:           notificationType,
			Title:          claimTitle(next),
			Message:        fmt.Sprintf("Your claim for %q was %s.", claim.ItemTitle, next),
			RelatedItemID:  &claim.ItemID,
			RelatedClaimID: &claim.ID,
		})
	}
	return s.load(ctx, claimID)
}

// IsParticipant reports whether userID is the claimer or the item owner.
func (c Claim) IsParticipant(userID uuid.UUID) bool {
	return userID == c.ClaimerID || userID == c.OwnerID
}

// Counterpart returns the other participant.
func (c Claim) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == c.ClaimerID {
		return c.OwnerID
	}
	return c.ClaimerID
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Claim, error) {
	claim, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load claim")
	}
	if claim == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "claim not found")
	}
	return claim, nil
}

func itemStatusFor(status enums.ClaimStatus) (enums.ItemStatus, bool) {
	switch status {
	case enums.ClaimStatusApproved:
		return enums.ItemStatusClaimed, true
	case enums.ClaimStatusCompleted:
		return enums.ItemStatusResolved, true
	}
	return "", false
}

func claimTitle(status enums.ClaimStatus) string {
	switch status {
	case enums.ClaimStatusApproved:
		return "Claim Approved"
	case enums.ClaimStatusRejected:
		return "Claim Rejected"
	default:
		return "Claim Completed"
	}
}
