package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

type itemExpirer interface {
	ExpireBefore(ctx context.Context, t enums.ItemType, cutoff time.Time) (int64, error)
}

// ItemExpiryJob retires active reports whose expires_at has passed: lost
// reports become EXPIRED and found reports ARCHIVED.
type ItemExpiryJob struct {
	logg  *logger.Logger
	items itemExpirer
	now   func() time.Time
}

func NewItemExpiryJob(logg *logger.Logger, items itemExpirer) (*ItemExpiryJob, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if items == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &ItemExpiryJob{logg: logg, items: items, now: time.Now}, nil
}

func (j *ItemExpiryJob) Name() string { return "item-expiry" }

// Run attempts both tables even when the first fails.
func (j *ItemExpiryJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC()
	var (
		total int64
		errs  error
	)
	for _, t := range []enums.ItemType{enums.ItemTypeLost, enums.ItemTypeFound} {
		n, err := j.items.ExpireBefore(ctx, t, cutoff)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		total += n
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"item_type": string(t),
			"expired":   n,
		}), "cron.items_expired")
	}
	return total, errs
}
