package claims

import (
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// Claim is a claim request joined with its item and claimer.
type Claim struct {
	ID           uuid.UUID         `json:"id"`
	ItemID       uuid.UUID         `json:"item_id"`
	ItemType     enums.ItemType    `json:"item_type"`
	ItemTitle    string            `json:"item_title"`
	OwnerID      uuid.UUID         `json:"owner_id"`
	ClaimerID    uuid.UUID         `json:"claimer_id"`
	ClaimerName  string            `json:"claimer_name"`
	ClaimerEmail string            `json:"claimer_email"`
	Message      string            `json:"message"`
	Status       enums.ClaimStatus `json:"status"`
	OwnerNotes   *string           `json:"owner_notes"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateInput is a claimer's request for one item.
type CreateInput struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	ItemType string `json:"item_type" validate:"omitempty,oneof=lost found"`
	Message  string `json:"message" validate:"required,min=10,max=1000"`
}

// UpdateStatusInput moves a claim through its lifecycle.
type UpdateStatusInput struct {
	Status     string  `json:"status" validate:"required,oneof=approved rejected completed"`
	OwnerNotes *string `json:"owner_notes" validate:"omitempty,max=1000"`
}

type claimRow struct {
	ID               uuid.UUID
	ItemID           uuid.UUID
	ItemType         string
	ClaimerID        uuid.UUID
	Message          string
	Status           string
	OwnerNotes       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ItemTitle        *string
	OwnerID          *uuid.UUID
	ClaimerFirstName *string
	ClaimerLastName  *string
	ClaimerEmail     *string
}

func (r claimRow) toClaim() Claim {
	claim := Claim{
		ID:           r.ID,
		ItemID:       r.ItemID,
		ItemType:     enums.ItemType(r.ItemType),
		ItemTitle:    deref(r.ItemTitle),
		ClaimerID:    r.ClaimerID,
		ClaimerName:  fullName(deref(r.ClaimerFirstName), deref(r.ClaimerLastName)),
		ClaimerEmail: deref(r.ClaimerEmail),
		Message:      r.Message,
		Status:       enums.ClaimStatus(r.Status),
		OwnerNotes:   r.OwnerNotes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.OwnerID != nil {
		claim.OwnerID = *r.OwnerID
	}
	return claim
}

func fullName(first, last string) string {
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
