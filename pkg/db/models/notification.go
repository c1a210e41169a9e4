package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// Notification stores in-app notifications addressed to a single user.
type Notification struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Type           enums.NotificationType `gorm:"column:type;not null" json:"type"`
	Title          string                 `gorm:"column:title;not null" json:"title"`
	Message        string                 `gorm:"column:message;not null" json:"message"`
	RelatedItemID  *uuid.UUID             `gorm:"column:related_item_id;type:uuid" json:"related_item_id"`
	RelatedClaimID *uuid.UUID             `gorm:"column:related_claim_id;type:uuid" json:"related_claim_id"`
	ReadAt         *time.Time             `gorm:"column:read_at;type:timestamptz" json:"read_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
