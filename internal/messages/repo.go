package messages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/pagination"
)

// Repository persists claim conversations.
type Repository interface {
	Create(ctx context.Context, message *models.Message) error
	List(ctx context.Context, claimID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Message, error)
	MarkReadFrom(ctx context.Context, claimID, senderID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// List returns up to limit messages of one claim, newest first, strictly
// after cursor.
func (r *repository) List(ctx context.Context, claimID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Message, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{}).Where("claim_request_id = ?", claimID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var out []models.Message
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReadFrom marks every unread message sent by senderID in the claim as read.
func (r *repository) MarkReadFrom(ctx context.Context, claimID, senderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("claim_request_id = ? AND sender_id = ? AND is_read = ?", claimID, senderID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}
