package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// LostItem is a row of lost_items. Dates and times are kept as ISO strings
// and always selected through a text cast.
type LostItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	CategoryID    *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	LocationID    *uuid.UUID      `gorm:"column:location_id;type:uuid"`
	Title         string          `gorm:"column:title;not null"`
	Description   string          `gorm:"column:description;not null"`
	DateLost      *string         `gorm:"column:date_lost;type:date"`
	TimeLost      *string         `gorm:"column:time_lost;type:time"`
	ContactMethod string          `gorm:"column:contact_method;not null"`
	ContactInfo   string          `gorm:"column:contact_info;not null"`
	Images        pq.StringArray  `gorm:"column:images;type:text[];not null"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[];not null"`
	Status        string          `gorm:"column:status;not null"`
	Urgency       string          `gorm:"column:urgency;not null"`
	RewardAmount  decimal.Decimal `gorm:"column:reward_amount;type:numeric(10,2);not null"`
	IsFeatured    bool            `gorm:"column:is_featured;not null"`
	ViewCount     int             `gorm:"column:view_count;not null"`
	ExpiresAt     *time.Time      `gorm:"column:expires_at;type:timestamptz"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// FoundItem is a row of found_items.
type FoundItem struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null"`
	CategoryID      *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	LocationID      *uuid.UUID     `gorm:"column:location_id;type:uuid"`
	Title           string         `gorm:"column:title;not null"`
	Description     string         `gorm:"column:description;not null"`
	DateFound       *string        `gorm:"column:date_found;type:date"`
	TimeFound       *string        `gorm:"column:time_found;type:time"`
	CurrentLocation string         `gorm:"column:current_location;not null"`
	ContactMethod   string         `gorm:"column:contact_method;not null"`
	ContactInfo     string         `gorm:"column:contact_info;not null"`
	Images          pq.StringArray `gorm:"column:images;type:text[];not null"`
	Tags            pq.StringArray `gorm:"column:tags;type:text[];not null"`
	Status          string         `gorm:"column:status;not null"`
	ConditionNotes  *string        `gorm:"column:condition_notes"`
	IsFeatured      bool           `gorm:"column:is_featured;not null"`
	ViewCount       int            `gorm:"column:view_count;not null"`
	ExpiresAt       *time.Time     `gorm:"column:expires_at;type:timestamptz"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
