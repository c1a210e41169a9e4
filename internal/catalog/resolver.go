package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umtlostfound/lostfound-backend/pkg/db"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
)

const (
	fallbackCategoryName        = "Other"
	fallbackCategoryDescription = "Miscellaneous items"
	fallbackCategoryIcon        = "help-circle"
	fallbackCategoryColor       = "#6B7280"
)

// Lookup kinds, also used as metric labels.
const (
	KindCategory = "category"
	KindLocation = "location"
)

// LookupError reports a failed category or location resolution. Callers may
// discard it and omit the association.
type LookupError struct {
	Kind string
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("resolve %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Resolver maps display names onto reference rows, creating them on first use.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(conn *gorm.DB) *Resolver {
	return &Resolver{db: conn}
}

// ResolveCategory matches name case-insensitively and falls back to "Other",
// creating that category when it is missing.
func (r *Resolver) ResolveCategory(ctx context.Context, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		id, err := r.findCategory(ctx, name)
		if err != nil {
			return uuid.Nil, &LookupError{Kind: KindCategory, Name: name, Err: err}
		}
		if id != uuid.Nil {
			return id, nil
		}
	}

	id, err := r.findCategory(ctx, fallbackCategoryName)
	if err != nil {
		return uuid.Nil, &LookupError{Kind: KindCategory, Name: name, Err: err}
	}
	if id != uuid.Nil {
		return id, nil
	}

	description := fallbackCategoryDescription
	category := models.Category{
		ID:          uuid.New(),
		Name:        fallbackCategoryName,
		Description: &description,
		Icon:        fallbackCategoryIcon,
		Color:       fallbackCategoryColor,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		if !db.IsUniqueViolation(err, "") {
			return uuid.Nil, &LookupError{Kind: KindCategory, Name: name, Err: err}
		}
		id, err = r.findCategory(ctx, fallbackCategoryName)
		if err != nil || id == uuid.Nil {
			return uuid.Nil, &LookupError{Kind: KindCategory, Name: name, Err: errors.Join(errors.New("fallback category vanished after conflict"), err)}
		}
		return id, nil
	}
	return category.ID, nil
}

// ResolveLocation matches text exactly, then as a substring of a stored name
// (shortest wins), and otherwise creates a new location named text.
func (r *Resolver) ResolveLocation(ctx context.Context, text string) (uuid.UUID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return uuid.Nil, &LookupError{Kind: KindLocation, Name: text, Err: errors.New("empty location")}
	}

	id, err := r.findLocation(ctx, text)
	if err != nil {
		return uuid.Nil, &LookupError{Kind: KindLocation, Name: text, Err: err}
	}
	if id != uuid.Nil {
		return id, nil
	}

	description := "Location: " + text
	location := models.Location{
		ID:          uuid.New(),
		Name:        text,
		Building:    text,
		Description: &description,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(&location).Error; err != nil {
		if !db.IsUniqueViolation(err, "") {
			return uuid.Nil, &LookupError{Kind: KindLocation, Name: text, Err: err}
		}
		id, err = r.findLocation(ctx, text)
		if err != nil || id == uuid.Nil {
			return uuid.Nil, &LookupError{Kind: KindLocation, Name: text, Err: errors.Join(errors.New("location vanished after conflict"), err)}
		}
		return id, nil
	}
	return location.ID, nil
}

func (r *Resolver) findCategory(ctx context.Context, name string) (uuid.UUID, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Limit(1).
		Take(&category).Error
	if db.IsNotFound(err) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return category.ID, nil
}

func (r *Resolver) findLocation(ctx context.Context, text string) (uuid.UUID, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(text)).
		Limit(1).
		Take(&location).Error
	if err == nil {
		return location.ID, nil
	}
	if !db.IsNotFound(err) {
		return uuid.Nil, err
	}

	err = r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? "+db.LikeEscape, db.ContainsPattern(text)).
		Order("LENGTH(name) ASC, name ASC").
		Limit(1).
		Take(&location).Error
	if db.IsNotFound(err) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return location.ID, nil
}

// ListCategories returns active categories ordered by name.
func (r *Resolver) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// ListLocations returns active locations ordered by name.
func (r *Resolver) ListLocations(ctx context.Context) ([]models.Location, error) {
	locations := []models.Location{}
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&locations).Error
	return locations, err
}
