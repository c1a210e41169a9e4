package items

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

const (
	unknownLocation  = "Unknown"
	unknownOwnerName = "Unknown"
)

// MalformedRowError names the required field a stored row is missing.
type MalformedRowError struct {
	Type  enums.ItemType
	ID    uuid.UUID
	Field string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed %s item %s: missing %s", e.Type, e.ID, e.Field)
}

// Normalize maps a joined row onto the unified Item. Found rows never carry a
// reward or a non-default urgency, whatever is stored.
func Normalize(row Row) (Item, error) {
	if strings.TrimSpace(row.Title) == "" {
		return Item{}, &MalformedRowError{Type: row.Type, ID: row.ID, Field: "title"}
	}
	if strings.TrimSpace(row.Description) == "" {
		return Item{}, &MalformedRowError{Type: row.Type, ID: row.ID, Field: "description"}
	}
	if row.ProfileID == nil {
		return Item{}, &MalformedRowError{Type: row.Type, ID: row.ID, Field: "owner"}
	}

	item := Item{
		ID:                row.ID,
		Type:              row.Type,
		UserID:            row.UserID,
		Title:             row.Title,
		Description:       row.Description,
		Category:          categoryCode(row.CategoryName),
		Location:          locationName(row.LocationName),
		Images:            copyImages(row.Images),
		DateLost:          row.EventDate,
		TimeLost:          row.EventTime,
		ContactPreference: string(contactPreference(row.ContactMethod)),
		Status:            displayStatus(row.Type, row.Status),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		OwnerName:         ownerName(row.OwnerFirstName, row.OwnerLastName),
		OwnerEmail:        deref(row.OwnerEmail),
	}
	if len(item.Images) > 0 {
		item.Image = item.Images[0]
	}

	if row.Type == enums.ItemTypeFound {
		item.Reward = 0
		item.Urgency = enums.UrgencyMedium
		return item, nil
	}

	if row.RewardAmount.Valid {
		if reward := row.RewardAmount.Decimal.IntPart(); reward > 0 {
			item.Reward = reward
		}
	}
	item.Urgency = displayUrgency(deref(row.Urgency))
	return item, nil
}

func categoryCode(name *string) string {
	code := strings.ToLower(strings.TrimSpace(deref(name)))
	if code == "" {
		return string(enums.ItemCategoryOther)
	}
	return code
}

func locationName(name *string) string {
	value := strings.TrimSpace(deref(name))
	if value == "" {
		return unknownLocation
	}
	return value
}

func ownerName(first, last *string) string {
	name := strings.TrimSpace(strings.TrimSpace(deref(first)) + " " + strings.TrimSpace(deref(last)))
	if name == "" {
		return unknownOwnerName
	}
	return name
}

// displayStatus folds found AVAILABLE into active; everything else is lowercased.
func displayStatus(t enums.ItemType, stored string) string {
	stored = strings.TrimSpace(stored)
	if t == enums.ItemTypeFound && strings.EqualFold(stored, enums.FoundStatusAvailable) {
		return string(enums.ItemStatusActive)
	}
	return strings.ToLower(stored)
}

func displayUrgency(stored string) enums.Urgency {
	if strings.EqualFold(stored, enums.StoredUrgencyCritical) {
		return enums.UrgencyHigh
	}
	if u, err := enums.ParseUrgency(stored); err == nil {
		return u
	}
	return enums.UrgencyMedium
}

// contactPreference maps BOTH and unknown methods to email.
func contactPreference(stored string) enums.ContactPreference {
	if pref, err := enums.ParseContactPreference(stored); err == nil {
		return pref
	}
	return enums.ContactPreferenceEmail
}

func copyImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			out = append(out, image)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
