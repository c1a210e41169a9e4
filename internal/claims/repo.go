package claims

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

const claimColumns = `cr.id, cr.item_id, cr.item_type, cr.claimer_id, cr.message, cr.status,
cr.owner_notes, cr.created_at, cr.updated_at,
COALESCE(l.title, f.title) AS item_title,
COALESCE(l.user_id, f.user_id) AS owner_id,
p.first_name AS claimer_first_name, p.last_name AS claimer_last_name, p.email AS claimer_email`

// Repository persists claim requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, claim *models.ClaimRequest) error
	HasPending(ctx context.Context, claimerID, itemID uuid.UUID) (bool, error)
	Find(ctx context.Context, id uuid.UUID) (*Claim, error)
	ListByClaimer(ctx context.Context, claimerID uuid.UUID) ([]Claim, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Claim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ClaimStatus, notes *string, now time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, claim *models.ClaimRequest) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *repository) HasPending(ctx context.Context, claimerID, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClaimRequest{}).
		Where("claimer_id = ? AND item_id = ? AND status = ?", claimerID, itemID, string(enums.ClaimStatusPending)).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("claim_requests AS cr").
		Select(claimColumns).
		Joins("LEFT JOIN lost_items l ON cr.item_type = ? AND l.id = cr.item_id", string(enums.ItemTypeLost)).
		Joins("LEFT JOIN found_items f ON cr.item_type = ? AND f.id = cr.item_id", string(enums.ItemTypeFound)).
		Joins("LEFT JOIN profiles p ON p.id = cr.claimer_id")
}

// Find returns the joined claim, or nil when absent.
func (r *repository) Find(ctx context.Context, id uuid.UUID) (*Claim, error) {
	var rows []claimRow
	if err := r.joined(ctx).Where("cr.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	claim := rows[0].toClaim()
	return &claim, nil
}

func (r *repository) ListByClaimer(ctx context.Context, claimerID uuid.UUID) ([]Claim, error) {
	return r.list(r.joined(ctx).Where("cr.claimer_id = ?", claimerID))
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Claim, error) {
	return r.list(r.joined(ctx).Where("COALESCE(l.user_id, f.user_id) = ?", ownerID))
}

func (r *repository) list(query *gorm.DB) ([]Claim, error) {
	var rows []claimRow
	if err := query.Order("cr.created_at DESC, cr.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Claim, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toClaim())
	}
	return out, nil
}

// UpdateStatus moves a claim from one status to another. It reports false when
// the claim was no longer in from.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ClaimStatus, notes *string, now time.Time) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	if notes != nil {
		updates["owner_notes"] = *notes
	}
	result := r.db.WithContext(ctx).
		Model(&models.ClaimRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
