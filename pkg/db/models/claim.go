package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// ClaimRequest is a request by a claimer to recover an item. ItemType says
// which table ItemID points into.
type ClaimRequest struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ItemID     uuid.UUID         `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	ItemType   enums.ItemType    `gorm:"column:item_type;not null" json:"item_type"`
	ClaimerID  uuid.UUID         `gorm:"column:claimer_id;type:uuid;not null" json:"claimer_id"`
	Message    string            `gorm:"column:message;not null" json:"message"`
	Status     enums.ClaimStatus `gorm:"column:status;not null" json:"status"`
	OwnerNotes *string           `gorm:"column:owner_notes" json:"owner_notes"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Message is one entry in a claim conversation.
type Message struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ClaimRequestID uuid.UUID `gorm:"column:claim_request_id;type:uuid;not null" json:"claim_request_id"`
	SenderID       uuid.UUID `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Body           string    `gorm:"column:body;not null" json:"body"`
	IsRead         bool      `gorm:"column:is_read;not null" json:"is_read"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
