package enums

import (
	"fmt"
	"strings"
)

// ItemType names the source table a report lives in.
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

var validItemTypes = []ItemType{ItemTypeLost, ItemTypeFound}

func (t ItemType) String() string { return string(t) }

// IsValid reports whether the value is a known item type.
func (t ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Table returns the backing table name.
func (t ItemType) Table() string {
	if t == ItemTypeFound {
		return "found_items"
	}
	return "lost_items"
}

// ParseItemType converts a case-insensitive token into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	v := ItemType(strings.ToLower(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid item type %q", value)
}

// ItemCategory is the fixed category vocabulary exposed to clients. The
// categories table stores the display name (e.g. "Electronics").
type ItemCategory string

const (
	ItemCategoryElectronics ItemCategory = "electronics"
	ItemCategoryBags        ItemCategory = "bags"
	ItemCategoryJewelry     ItemCategory = "jewelry"
	ItemCategoryClothing    ItemCategory = "clothing"
	ItemCategoryPersonal    ItemCategory = "personal"
	ItemCategoryBooks       ItemCategory = "books"
	ItemCategorySports      ItemCategory = "sports"
	ItemCategoryOther       ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryElectronics,
	ItemCategoryBags,
	ItemCategoryJewelry,
	ItemCategoryClothing,
	ItemCategoryPersonal,
	ItemCategoryBooks,
	ItemCategorySports,
	ItemCategoryOther,
}

func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// DisplayName is the name stored in the categories table.
func (c ItemCategory) DisplayName() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func ParseItemCategory(value string) (ItemCategory, error) {
	v := ItemCategory(strings.ToLower(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

// Urgency is the client-facing urgency token.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

var validUrgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}

func (u Urgency) IsValid() bool {
	for _, candidate := range validUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

// Stored returns the uppercase code persisted in lost_items.urgency.
func (u Urgency) Stored() string {
	return strings.ToUpper(string(u))
}

func ParseUrgency(value string) (Urgency, error) {
	v := Urgency(strings.ToLower(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid urgency %q", value)
}

// StoredUrgencyCritical exists only in the store; reads fold it into high.
const StoredUrgencyCritical = "CRITICAL"

// ItemStatus is the shared status vocabulary used on the write side.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusClaimed  ItemStatus = "claimed"
	ItemStatusResolved ItemStatus = "resolved"
	ItemStatusArchived ItemStatus = "archived"
)

var validItemStatuses = []ItemStatus{ItemStatusActive, ItemStatusClaimed, ItemStatusResolved, ItemStatusArchived}

func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseItemStatus(value string) (ItemStatus, error) {
	v := ItemStatus(strings.ToLower(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid item status %q", value)
}

// Stored codes for lost_items.status.
const (
	LostStatusActive   = "ACTIVE"
	LostStatusFound    = "FOUND"
	LostStatusExpired  = "EXPIRED"
	LostStatusArchived = "ARCHIVED"
)

// Stored codes for found_items.status.
const (
	FoundStatusAvailable  = "AVAILABLE"
	FoundStatusClaimed    = "CLAIMED"
	FoundStatusHandedOver = "HANDED_OVER"
	FoundStatusArchived   = "ARCHIVED"
)

var lostStatusCodes = map[ItemStatus]string{
	ItemStatusActive:   LostStatusActive,
	ItemStatusClaimed:  LostStatusFound,
	ItemStatusResolved: LostStatusFound,
	ItemStatusArchived: LostStatusArchived,
}

var foundStatusCodes = map[ItemStatus]string{
	ItemStatusActive:   FoundStatusAvailable,
	ItemStatusClaimed:  FoundStatusClaimed,
	ItemStatusResolved: FoundStatusHandedOver,
	ItemStatusArchived: FoundStatusArchived,
}

// StoredStatus translates a shared status token into the table's stored code.
func StoredStatus(t ItemType, s ItemStatus) (string, error) {
	codes := lostStatusCodes
	if t == ItemTypeFound {
		codes = foundStatusCodes
	}
	code, ok := codes[s]
	if !ok {
		return "", fmt.Errorf("invalid item status %q", s)
	}
	return code, nil
}

// ActiveStatus is the stored code listed publicly for the table.
func ActiveStatus(t ItemType) string {
	if t == ItemTypeFound {
		return FoundStatusAvailable
	}
	return LostStatusActive
}

// ExpiredStatus is the stored code an active report moves to once its
// expires_at has passed.
func ExpiredStatus(t ItemType) string {
	if t == ItemTypeFound {
		return FoundStatusArchived
	}
	return LostStatusExpired
}

// ContactPreference is the client-facing contact token.
type ContactPreference string

const (
	ContactPreferenceEmail ContactPreference = "email"
	ContactPreferencePhone ContactPreference = "phone"
)

func (c ContactPreference) IsValid() bool {
	return c == ContactPreferenceEmail || c == ContactPreferencePhone
}

// Stored returns the uppercase contact_method code.
func (c ContactPreference) Stored() string {
	return strings.ToUpper(string(c))
}

func ParseContactPreference(value string) (ContactPreference, error) {
	v := ContactPreference(strings.ToLower(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid contact preference %q", value)
}
