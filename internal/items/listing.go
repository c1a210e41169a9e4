package items

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/metrics"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 50

	maxFilterLength = 200
	typeBoth        = "both"
)

// Source fetches complete filtered row sets from each table. Predicates it
// cannot express may be left to the in-memory pass.
type Source interface {
	FetchLost(ctx context.Context, filter ListFilter) ([]Row, error)
	FetchFound(ctx context.Context, filter ListFilter) ([]Row, error)
}

// Lister merges both tables into one globally sorted, paginated listing.
// Both tables are fetched in full before sorting, so pages never interleave
// incorrectly; this relies on the filtered sets staying small.
type Lister struct {
	source  Source
	metrics *metrics.ListingMetrics
}

func NewLister(source Source, m *metrics.ListingMetrics) *Lister {
	return &Lister{source: source, metrics: m}
}

// List validates filter, fetches both sides concurrently, normalizes, applies
// the fallback predicates, sorts newest first and slices the page.
func (l *Lister) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	start := time.Now()
	defer func() { l.metrics.ObserveDuration(time.Since(start)) }()

	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	var lostRows, foundRows []Row
	g, gctx := errgroup.WithContext(ctx)
	if filter.includesLost() {
		g.Go(func() error {
			rows, err := l.source.FetchLost(gctx, filter)
			lostRows = rows
			return err
		})
	}
	if filter.includesFound() {
		g.Go(func() error {
			rows, err := l.source.FetchFound(gctx, filter)
			foundRows = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}

	all := make([]Item, 0, len(lostRows)+len(foundRows))
	all, err = appendNormalized(all, enums.ItemTypeLost, lostRows)
	if err != nil {
		return nil, err
	}
	all, err = appendNormalized(all, enums.ItemTypeFound, foundRows)
	if err != nil {
		return nil, err
	}
	l.metrics.AddListed(string(enums.ItemTypeLost), len(lostRows))
	l.metrics.AddListed(string(enums.ItemTypeFound), len(foundRows))

	all = applyFilter(all, filter)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return paginate(all, filter.Page, filter.PerPage), nil
}

func appendNormalized(dst []Item, t enums.ItemType, rows []Row) ([]Item, error) {
	for _, row := range rows {
		row.Type = t
		item, err := Normalize(row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "normalize item")
		}
		dst = append(dst, item)
	}
	return dst, nil
}

func normalizeFilter(f ListFilter) (ListFilter, error) {
	details := map[string]string{}

	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type == typeBoth {
		f.Type = ""
	}
	if f.Type != "" {
		if _, err := enums.ParseItemType(f.Type); err != nil {
			details["type"] = "must be one of [lost found both]"
		}
	}

	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Location = strings.TrimSpace(f.Location)
	f.Search = strings.TrimSpace(f.Search)
	for field, value := range map[string]string{"category": f.Category, "location": f.Location, "search": f.Search} {
		if len(value) > maxFilterLength {
			details[field] = "must be at most 200 characters"
		}
	}

	f.Urgency = strings.ToLower(strings.TrimSpace(f.Urgency))
	if f.Urgency != "" && !enums.Urgency(f.Urgency).IsValid() {
		details["urgency"] = "must be one of [low medium high]"
	}

	switch {
	case f.Page == 0:
		f.Page = 1
	case f.Page < 0:
		details["page"] = "must be at least 1"
	}
	switch {
	case f.PerPage == 0:
		f.PerPage = DefaultPerPage
	case f.PerPage < 1 || f.PerPage > MaxPerPage:
		details["per_page"] = "must be between 1 and 50"
	}

	if len(details) > 0 {
		return f, pkgerrors.Validation("invalid listing filter", details)
	}
	return f, nil
}

func (f ListFilter) includesLost() bool {
	return f.Type == "" || f.Type == string(enums.ItemTypeLost)
}

// includesFound is false whenever a lost-only predicate is set: found items
// have no reward or urgency to match.
func (f ListFilter) includesFound() bool {
	if f.Urgency != "" || f.HasReward {
		return false
	}
	return f.Type == "" || f.Type == string(enums.ItemTypeFound)
}

// applyFilter re-checks every predicate on normalized items. It is a no-op for
// rows the store already filtered.
func applyFilter(all []Item, f ListFilter) []Item {
	out := all[:0]
	for _, item := range all {
		if matches(item, f) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item Item, f ListFilter) bool {
	if f.OwnerID != nil {
		if item.UserID != *f.OwnerID {
			return false
		}
	} else if item.Status != string(enums.ItemStatusActive) {
		return false
	}
	if f.Type != "" && string(item.Type) != f.Type {
		return false
	}
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Location != "" && !containsFold(item.Location, f.Location) {
		return false
	}
	if f.Urgency != "" && (item.Type != enums.ItemTypeLost || string(item.Urgency) != f.Urgency) {
		return false
	}
	if f.HasReward && (item.Type != enums.ItemTypeLost || item.Reward <= 0) {
		return false
	}
	if f.Search != "" && !containsFold(item.Title, f.Search) && !containsFold(item.Description, f.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func paginate(all []Item, page, perPage int) *ListResult {
	total := len(all)
	start := total
	if page-1 <= total/perPage {
		start = min((page-1)*perPage, total)
	}
	end := min(start+perPage, total)
	pageItems := make([]Item, end-start)
	copy(pageItems, all[start:end])
	return &ListResult{
		Items:   pageItems,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: end < total,
		HasPrev: page > 1,
	}
}
