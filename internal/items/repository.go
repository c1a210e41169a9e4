package items

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umtlostfound/lostfound-backend/pkg/db"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// Dates and times are cast to text so both drivers scan them as ISO strings.
const (
	lostColumns = `l.id, l.user_id, l.title, l.description,
c.name AS category_name, loc.name AS location_name,
l.images, l.reward_amount, l.urgency,
CAST(l.date_lost AS TEXT) AS event_date, CAST(l.time_lost AS TEXT) AS event_time,
l.contact_method, l.status, l.created_at, l.updated_at,
p.id AS profile_id, p.first_name AS owner_first_name, p.last_name AS owner_last_name, p.email AS owner_email`

	foundColumns = `f.id, f.user_id, f.title, f.description,
c.name AS category_name, loc.name AS location_name,
f.images, NULL AS reward_amount, NULL AS urgency,
CAST(f.date_found AS TEXT) AS event_date, CAST(f.time_found AS TEXT) AS event_time,
f.contact_method, f.status, f.created_at, f.updated_at,
p.id AS profile_id, p.first_name AS owner_first_name, p.last_name AS owner_last_name, p.email AS owner_email`
)

// Repository reads and writes both report tables.
type Repository interface {
	Source
	WithTx(tx *gorm.DB) Repository
	FindRow(ctx context.Context, t enums.ItemType, id uuid.UUID) (*Row, error)
	InsertLost(ctx context.Context, item *models.LostItem) error
	InsertFound(ctx context.Context, item *models.FoundItem) error
	Update(ctx context.Context, t enums.ItemType, id uuid.UUID, updates map[string]any) error
	SetStatus(ctx context.Context, t enums.ItemType, id uuid.UUID, status enums.ItemStatus) error
	IncrementViewCount(ctx context.Context, t enums.ItemType, id uuid.UUID) error
	CountsForOwner(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error)
	ExpireBefore(ctx context.Context, t enums.ItemType, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) lostQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("lost_items AS l").
		Select(lostColumns).
		Joins("LEFT JOIN categories c ON c.id = l.category_id").
		Joins("LEFT JOIN locations loc ON loc.id = l.location_id").
		Joins("LEFT JOIN profiles p ON p.id = l.user_id")
}

func (r *repository) foundQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("found_items AS f").
		Select(foundColumns).
		Joins("LEFT JOIN categories c ON c.id = f.category_id").
		Joins("LEFT JOIN locations loc ON loc.id = f.location_id").
		Joins("LEFT JOIN profiles p ON p.id = f.user_id")
}

// FetchLost returns every lost row matching filter, newest first.
func (r *repository) FetchLost(ctx context.Context, filter ListFilter) ([]Row, error) {
	query := applyCommonPredicates(r.lostQuery(ctx), "l", enums.ItemTypeLost, filter)
	if filter.Urgency != "" {
		if filter.Urgency == string(enums.UrgencyHigh) {
			query = query.Where("l.urgency IN ?", []string{enums.UrgencyHigh.Stored(), enums.StoredUrgencyCritical})
		} else {
			query = query.Where("l.urgency = ?", enums.Urgency(filter.Urgency).Stored())
		}
	}
	if filter.HasReward {
		// Rewards are reported in whole units, so a fractional amount below
		// one does not count as a reward.
		query = query.Where("l.reward_amount >= 1")
	}
	return scanRows(query.Order("l.created_at DESC, l.id DESC"), enums.ItemTypeLost)
}

// FetchFound returns every found row matching filter, newest first.
func (r *repository) FetchFound(ctx context.Context, filter ListFilter) ([]Row, error) {
	query := applyCommonPredicates(r.foundQuery(ctx), "f", enums.ItemTypeFound, filter)
	return scanRows(query.Order("f.created_at DESC, f.id DESC"), enums.ItemTypeFound)
}

func applyCommonPredicates(query *gorm.DB, alias string, t enums.ItemType, filter ListFilter) *gorm.DB {
	if filter.OwnerID != nil {
		query = query.Where(alias+".user_id = ?", *filter.OwnerID)
	} else {
		query = query.Where(alias+".status = ?", enums.ActiveStatus(t))
	}
	if filter.Category != "" {
		if filter.Category == string(enums.ItemCategoryOther) {
			query = query.Where("(c.name IS NULL OR LOWER(c.name) = ?)", filter.Category)
		} else {
			query = query.Where("LOWER(c.name) = ?", strings.ToLower(filter.Category))
		}
	}
	if filter.Location != "" {
		query = query.Where("LOWER(loc.name) LIKE ? "+db.LikeEscape, db.ContainsPattern(filter.Location))
	}
	if filter.Search != "" {
		pattern := db.ContainsPattern(filter.Search)
		query = query.Where(
			fmt.Sprintf("(LOWER(%[1]s.title) LIKE ? %[2]s OR LOWER(%[1]s.description) LIKE ? %[2]s)", alias, db.LikeEscape),
			pattern, pattern,
		)
	}
	return query
}

func scanRows(query *gorm.DB, t enums.ItemType) ([]Row, error) {
	var rows []Row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch %s items: %w", t, err)
	}
	for i := range rows {
		rows[i].Type = t
	}
	return rows, nil
}

// FindRow returns the joined row, or nil when the table has no such id.
func (r *repository) FindRow(ctx context.Context, t enums.ItemType, id uuid.UUID) (*Row, error) {
	var query *gorm.DB
	if t == enums.ItemTypeFound {
		query = r.foundQuery(ctx).Where("f.id = ?", id)
	} else {
		query = r.lostQuery(ctx).Where("l.id = ?", id)
	}
	rows, err := scanRows(query.Limit(1), t)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repository) InsertLost(ctx context.Context, item *models.LostItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) InsertFound(ctx context.Context, item *models.FoundItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, t enums.ItemType, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).Table(t.Table()).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) SetStatus(ctx context.Context, t enums.ItemType, id uuid.UUID, status enums.ItemStatus) error {
	stored, err := enums.StoredStatus(t, status)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Table(t.Table()).
		Where("id = ?", id).
		Updates(map[string]any{"status": stored, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IncrementViewCount(ctx context.Context, t enums.ItemType, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Table(t.Table()).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// CountsForOwner fills every Dashboard field except SuccessRate.
func (r *repository) CountsForOwner(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	var counts struct {
		LostReports    int64
		FoundReports   int64
		LostRecovered  int64
		FoundRecovered int64
		PendingClaims  int64
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT
  (SELECT COUNT(*) FROM lost_items WHERE user_id = @owner) AS lost_reports,
  (SELECT COUNT(*) FROM found_items WHERE user_id = @owner) AS found_reports,
  (SELECT COUNT(*) FROM lost_items WHERE user_id = @owner AND status = @lost_recovered) AS lost_recovered,
  (SELECT COUNT(*) FROM found_items WHERE user_id = @owner AND status = @found_recovered) AS found_recovered,
  (SELECT COUNT(*) FROM claim_requests cr
     WHERE cr.status = @pending AND (
       (cr.item_type = @lost AND cr.item_id IN (SELECT id FROM lost_items WHERE user_id = @owner)) OR
       (cr.item_type = @found AND cr.item_id IN (SELECT id FROM found_items WHERE user_id = @owner))
     )) AS pending_claims`,
		map[string]any{
			"owner":           ownerID,
			"lost_recovered":  enums.LostStatusFound,
			"found_recovered": enums.FoundStatusHandedOver,
			"pending":         string(enums.ClaimStatusPending),
			"lost":            string(enums.ItemTypeLost),
			"found":           string(enums.ItemTypeFound),
		}).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		LostReports:    counts.LostReports,
		FoundReports:   counts.FoundReports,
		ItemsRecovered: counts.LostRecovered + counts.FoundRecovered,
		PendingClaims:  counts.PendingClaims,
	}, nil
}

// ExpireBefore moves active reports whose expires_at is before cutoff to the
// table's expired code and returns how many changed.
func (r *repository) ExpireBefore(ctx context.Context, t enums.ItemType, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Table(t.Table()).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", enums.ActiveStatus(t), cutoff).
		Updates(map[string]any{"status": enums.ExpiredStatus(t), "updated_at": cutoff})
	if result.Error != nil {
		return 0, fmt.Errorf("expire %s items: %w", t, result.Error)
	}
	return result.RowsAffected, nil
}
