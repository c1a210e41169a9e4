package items

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/umtlostfound/lostfound-backend/internal/async"
	"github.com/umtlostfound/lostfound-backend/internal/catalog"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
	"github.com/umtlostfound/lostfound-backend/pkg/metrics"
	"github.com/umtlostfound/lostfound-backend/pkg/validation"
	"github.com/umtlostfound/lostfound-backend/pkg/visibility"
)

// Resolver maps category and location names onto reference ids.
type Resolver interface {
	ResolveCategory(ctx context.Context, name string) (uuid.UUID, error)
	ResolveLocation(ctx context.Context, name string) (uuid.UUID, error)
}

type ServiceParams struct {
	Repository Repository
	Resolver   Resolver
	Runner     async.Runner
	Logger     *logger.Logger
	Listing    *metrics.ListingMetrics
	Lookups    *metrics.LookupMetrics
}

// Service implements report creation, reads, edits and the unified listing.
type Service struct {
	repo     Repository
	resolver Resolver
	lister   *Lister
	runner   async.Runner
	logg     *logger.Logger
	lookups  *metrics.LookupMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "items repository required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog resolver required")
	}
	if params.Runner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "async runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{
		repo:     params.Repository,
		resolver: params.Resolver,
		lister:   NewLister(params.Repository, params.Listing),
		runner:   params.Runner,
		logg:     params.Logger,
		lookups:  params.Lookups,
	}, nil
}

// List runs the unified listing.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	return s.lister.List(ctx, filter)
}

// Create stores a new report in the table picked by input.Type and returns it
// read back through the same normalization as the listing.
func (s *Service) Create(ctx context.Context, owner models.Profile, input CreateInput) (*Item, error) {
	input = trimCreateInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	itemType, _ := enums.ParseItemType(input.Type)
	category, _ := enums.ParseItemCategory(input.Category)

	urgency := enums.UrgencyMedium
	if input.Urgency != "" {
		urgency = enums.Urgency(input.Urgency)
	}
	contact := enums.ContactPreferenceEmail
	if input.ContactPreference != "" {
		contact = enums.ContactPreference(input.ContactPreference)
	}

	categoryID := s.resolveCategory(ctx, category.DisplayName())
	locationID := s.resolveLocation(ctx, input.Location)

	images := pq.StringArray(append([]string{}, input.Images...))
	var id uuid.UUID
	switch itemType {
	case enums.ItemTypeLost:
		row := &models.LostItem{
			ID:            uuid.New(),
			UserID:        owner.ID,
			CategoryID:    categoryID,
			LocationID:    locationID,
			Title:         input.Title,
			Description:   input.Description,
			DateLost:      optional(input.Date),
			TimeLost:      optional(input.Time),
			ContactMethod: contact.Stored(),
			ContactInfo:   owner.EmailOrEmpty(),
			Images:        images,
			Tags:          pq.StringArray{},
			Status:        enums.LostStatusActive,
			Urgency:       urgency.Stored(),
			RewardAmount:  decimal.NewFromInt(input.Reward),
		}
		if err := s.repo.InsertLost(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create lost item")
		}
		id = row.ID
	case enums.ItemTypeFound:
		row := &models.FoundItem{
			ID:              uuid.New(),
			UserID:          owner.ID,
			CategoryID:      categoryID,
			LocationID:      locationID,
			Title:           input.Title,
			Description:     input.Description,
			DateFound:       optional(input.Date),
			TimeFound:       optional(input.Time),
			CurrentLocation: input.Location,
			ContactMethod:   contact.Stored(),
			ContactInfo:     owner.EmailOrEmpty(),
			Images:          images,
			Tags:            pq.StringArray{},
			Status:          enums.FoundStatusAvailable,
		}
		if err := s.repo.InsertFound(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create found item")
		}
		id = row.ID
	}

	s.logg.Info(s.logg.WithItem(ctx, string(itemType), id.String()), "items.created")
	return s.reload(ctx, itemType, id)
}

// Get returns one report. Reports that are no longer active are visible only
// to their owner. A view is counted in the background.
func (s *Service) Get(ctx context.Context, id uuid.UUID, itemType string, viewer *uuid.UUID) (*Item, error) {
	item, err := s.Find(ctx, id, itemType)
	if err != nil {
		return nil, err
	}
	if err := visibility.EnsureItemVisible(visibility.ItemVisibilityInput{
		Status:  item.Status,
		OwnerID: item.UserID,
		Viewer:  viewer,
	}); err != nil {
		return nil, err
	}

	if viewer == nil || *viewer != item.UserID {
		t := item.Type
		s.runner.Go(ctx, "items.view_count", func(taskCtx context.Context) error {
			return s.repo.IncrementViewCount(taskCtx, t, id)
		})
	}
	return item, nil
}

// Find loads a report from the named table, or from lost then found when
// itemType is empty. It applies no visibility rule.
func (s *Service) Find(ctx context.Context, id uuid.UUID, itemType string) (*Item, error) {
	types, err := candidateTypes(itemType)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		row, err := s.repo.FindRow(ctx, t, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
		}
		if row == nil {
			continue
		}
		item, err := Normalize(*row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "normalize item")
		}
		return &item, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}

// Update applies an owner's partial edit.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, itemType string, input UpdateInput) (*Item, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	current, err := s.Find(ctx, id, itemType)
	if err != nil {
		return nil, err
	}
	if current.UserID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can edit this item")
	}
	if current.Type == enums.ItemTypeFound && (input.Reward != nil || input.Urgency != nil) {
		return nil, pkgerrors.Validation("found items have no reward or urgency", map[string]string{
			"reward":  "not applicable to found items",
			"urgency": "not applicable to found items",
		})
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		category, _ := enums.ParseItemCategory(*input.Category)
		if categoryID := s.resolveCategory(ctx, category.DisplayName()); categoryID != nil {
			updates["category_id"] = *categoryID
		}
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if locationID := s.resolveLocation(ctx, location); locationID != nil {
			updates["location_id"] = *locationID
		}
		if current.Type == enums.ItemTypeFound {
			updates["current_location"] = location
		}
	}
	if input.Images != nil {
		updates["images"] = pq.StringArray(append([]string{}, (*input.Images)...))
	}
	if input.ContactPreference != nil {
		updates["contact_method"] = enums.ContactPreference(*input.ContactPreference).Stored()
	}
	if input.Status != nil {
		stored, err := enums.StoredStatus(current.Type, enums.ItemStatus(*input.Status))
		if err != nil {
			return nil, pkgerrors.Validation("invalid status", map[string]string{"status": err.Error()})
		}
		updates["status"] = stored
	}
	if input.Reward != nil {
		updates["reward_amount"] = decimal.NewFromInt(*input.Reward)
	}
	if input.Urgency != nil {
		updates["urgency"] = enums.Urgency(*input.Urgency).Stored()
	}

	if err := s.repo.Update(ctx, current.Type, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	return s.reload(ctx, current.Type, id)
}

// Dashboard summarises the owner's reports and claims.
func (s *Service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	dashboard, err := s.repo.CountsForOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load dashboard")
	}
	dashboard.SuccessRate = successRate(dashboard.ItemsRecovered, dashboard.LostReports+dashboard.FoundReports)
	return dashboard, nil
}

func successRate(recovered, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(recovered).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1).
		InexactFloat64()
}

func (s *Service) reload(ctx context.Context, t enums.ItemType, id uuid.UUID) (*Item, error) {
	return s.Find(ctx, id, string(t))
}

// resolveCategory is best-effort: a failed lookup leaves the report without a
// category. The error is logged and counted, never returned.
func (s *Service) resolveCategory(ctx context.Context, name string) *uuid.UUID {
	id, err := s.resolver.ResolveCategory(ctx, name)
	if err != nil {
		s.lookupFailed(ctx, catalog.KindCategory, err)
		return nil
	}
	return &id
}

// resolveLocation is best-effort in the same way as resolveCategory.
func (s *Service) resolveLocation(ctx context.Context, name string) *uuid.UUID {
	id, err := s.resolver.ResolveLocation(ctx, name)
	if err != nil {
		s.lookupFailed(ctx, catalog.KindLocation, err)
		return nil
	}
	return &id
}

func (s *Service) lookupFailed(ctx context.Context, kind string, err error) {
	var lookupErr *catalog.LookupError
	if errors.As(err, &lookupErr) {
		kind = lookupErr.Kind
	}
	s.lookups.IncFailure(kind)
	s.logg.WarnErr(s.logg.WithField(ctx, "lookup_kind", kind), "items.lookup_failed", err)
}

func candidateTypes(itemType string) ([]enums.ItemType, error) {
	if strings.TrimSpace(itemType) == "" {
		return []enums.ItemType{enums.ItemTypeLost, enums.ItemTypeFound}, nil
	}
	t, err := enums.ParseItemType(itemType)
	if err != nil {
		return nil, pkgerrors.Validation("invalid item type", map[string]string{"type": "must be one of [lost found]"})
	}
	return []enums.ItemType{t}, nil
}

func trimCreateInput(in CreateInput) CreateInput {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Location = strings.TrimSpace(in.Location)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Urgency = strings.ToLower(strings.TrimSpace(in.Urgency))
	in.ContactPreference = strings.ToLower(strings.TrimSpace(in.ContactPreference))
	return in
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
