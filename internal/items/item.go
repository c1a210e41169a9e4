package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// Item is the unified, read-time view of a lost or found report. It is never
// persisted; every Item comes from exactly one row of lost_items or found_items.
type Item struct {
	ID                uuid.UUID      `json:"id"`
	Type              enums.ItemType `json:"type"`
	UserID            uuid.UUID      `json:"user_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Location          string         `json:"location"`
	Images            []string       `json:"images"`
	Image             string         `json:"image"`
	Reward            int64          `json:"reward"`
	Urgency           enums.Urgency  `json:"urgency"`
	DateLost          *string        `json:"date_lost"`
	TimeLost          *string        `json:"time_lost"`
	ContactPreference string         `json:"contact_preference"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	OwnerName         string         `json:"owner_name"`
	OwnerEmail        string         `json:"owner_email"`
}

// Row is one stored report joined with its category, location and owner.
// Type is set from the table that was queried, never from the data.
type Row struct {
	Type           enums.ItemType `gorm:"-"`
	ID             uuid.UUID
	UserID         uuid.UUID
	Title          string
	Description    string
	CategoryName   *string
	LocationName   *string
	Images         pq.StringArray `gorm:"column:images;type:text[]"`
	RewardAmount   decimal.NullDecimal
	Urgency        *string
	EventDate      *string
	EventTime      *string
	ContactMethod  string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ProfileID      *uuid.UUID
	OwnerFirstName *string
	OwnerLastName  *string
	OwnerEmail     *string
}

// ListFilter selects and pages the unified listing.
type ListFilter struct {
	Type      string
	Category  string
	Location  string
	Urgency   string
	HasReward bool
	Search    string
	Page      int
	PerPage   int

	// OwnerID restricts the listing to one owner's reports in any status.
	OwnerID *uuid.UUID
}

// ListResult is one page of the unified listing.
type ListResult struct {
	Items   []Item `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}

// CreateInput is a new lost or found report.
type CreateInput struct {
	Type              string   `json:"type" validate:"required,oneof=lost found"`
	Title             string   `json:"title" validate:"required,min=3,max=200"`
	Description       string   `json:"description" validate:"required,min=10,max=2000"`
	Category          string   `json:"category" validate:"required,oneof=electronics bags jewelry clothing personal books sports other"`
	Location          string   `json:"location" validate:"required,min=2,max=100"`
	Date              string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time              string   `json:"time" validate:"omitempty,clocktime"`
	Reward            int64    `json:"reward" validate:"gte=0"`
	Urgency           string   `json:"urgency" validate:"omitempty,oneof=low medium high"`
	ContactPreference string   `json:"contact_preference" validate:"omitempty,oneof=email phone"`
	Images            []string `json:"images" validate:"max=10,dive,url"`
}

// UpdateInput is a partial edit by the owner. Nil fields are left unchanged.
type UpdateInput struct {
	Title             *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description       *string   `json:"description" validate:"omitempty,min=10,max=2000"`
	Category          *string   `json:"category" validate:"omitempty,oneof=electronics bags jewelry clothing personal books sports other"`
	Location          *string   `json:"location" validate:"omitempty,min=2,max=100"`
	Images            *[]string `json:"images" validate:"omitempty,max=10,dive,url"`
	ContactPreference *string   `json:"contact_preference" validate:"omitempty,oneof=email phone"`
	Status            *string   `json:"status" validate:"omitempty,oneof=active claimed resolved archived"`
	Reward            *int64    `json:"reward" validate:"omitempty,gte=0"`
	Urgency           *string   `json:"urgency" validate:"omitempty,oneof=low medium high"`
}

// Dashboard summarises one user's reports.
type Dashboard struct {
	LostReports    int64   `json:"lost_reports"`
	FoundReports   int64   `json:"found_reports"`
	ItemsRecovered int64   `json:"items_recovered"`
	PendingClaims  int64   `json:"pending_claims"`
	SuccessRate    float64 `json:"success_rate"`
}
