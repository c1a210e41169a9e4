package visibility

import (
	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
)

// ItemVisibilityInput drives the read rule for a single report.
type ItemVisibilityInput struct {
	Status  string
	OwnerID uuid.UUID
	Viewer  *uuid.UUID
}

// EnsureItemVisible hides reports that have left the active state from
// everyone but their owner. Hidden reports surface as not found so their
// existence does not leak.
func EnsureItemVisible(input ItemVisibilityInput) error {
	if input.Status == string(enums.ItemStatusActive) {
		return nil
	}
	if input.Viewer != nil && *input.Viewer == input.OwnerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}
