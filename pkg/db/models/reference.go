package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a reference row resolved by display name.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	Icon        string    `gorm:"column:icon;not null" json:"icon"`
	Color       string    `gorm:"column:color;not null" json:"color"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	ItemCount   int       `gorm:"column:item_count;not null" json:"item_count"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Location is a campus place resolved by name, created on first use.
type Location struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Building    string    `gorm:"column:building;not null" json:"building"`
	Floor       *string   `gorm:"column:floor" json:"floor"`
	Room        *string   `gorm:"column:room" json:"room"`
	Description *string   `gorm:"column:description" json:"description"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	ItemCount   int       `gorm:"column:item_count;not null" json:"item_count"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
