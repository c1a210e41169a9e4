package items

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/umtlostfound/lostfound-backend/internal/async"
	"github.com/umtlostfound/lostfound-backend/internal/catalog"
	"github.com/umtlostfound/lostfound-backend/internal/testdb"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

type serviceFixture struct {
	conn   *gorm.DB
	svc    *Service
	runner *async.Inline
	logs   *bytes.Buffer
	owner  models.Profile
}

func newServiceFixture(t *testing.T, resolver Resolver) *serviceFixture {
	t.Helper()
	conn := testdb.Open(t)
	if resolver == nil {
		resolver = catalog.NewResolver(conn)
	}
	logs := &bytes.Buffer{}
	runner := &async.Inline{}
	svc, err := NewService(ServiceParams{
		Repository: NewRepository(conn),
		Resolver:   resolver,
		Runner:     runner,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: logs}),
	})
	require.NoError(t, err)
	return &serviceFixture{
		conn:   conn,
		svc:    svc,
		runner: runner,
		logs:   logs,
		owner:  testdb.MustProfile(t, conn, "Mary", "Jackson", "mary@example.edu"),
	}
}

func validFoundInput() CreateInput {
	return CreateInput{
		Type:        "found",
		Title:       "Grey hoodie",
		Description: "Found folded on a bench outside",
		Category:    "clothing",
		Location:    "New Gym Annex",
		Date:        "2026-03-02",
		Time:        "17:45",
	}
}

func TestCreateFoundItemCreatesLocation(t *testing.T) {
	f := newServiceFixture(t, nil)
	testdb.MustCategory(t, f.conn, "Clothing")

	item, err := f.svc.Create(context.Background(), f.owner, validFoundInput())
	require.NoError(t, err)

	assert.Equal(t, enums.ItemTypeFound, item.Type)
	assert.Equal(t, "New Gym Annex", item.Location)
	assert.Equal(t, "clothing", item.Category)
	assert.Equal(t, "active", item.Status)
	assert.Equal(t, int64(0), item.Reward)
	assert.Equal(t, enums.UrgencyMedium, item.Urgency)
	assert.Equal(t, "email", item.ContactPreference)
	assert.Equal(t, "Mary Jackson", item.OwnerName)
	require.NotNil(t, item.DateLost)
	assert.Equal(t, "2026-03-02", *item.DateLost)

	var location models.Location
	require.NoError(t, f.conn.Where("name = ?", "New Gym Annex").First(&location).Error)
	assert.Equal(t, "New Gym Annex", location.Building)

	var stored models.FoundItem
	require.NoError(t, f.conn.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, enums.FoundStatusAvailable, stored.Status)
	assert.Equal(t, "New Gym Annex", stored.CurrentLocation)
	assert.Equal(t, "mary@example.edu", stored.ContactInfo)
	assert.Equal(t, "EMAIL", stored.ContactMethod)
}

func TestCreateUnknownCategoryFallsBackToOther(t *testing.T) {
	f := newServiceFixture(t, nil)

	item, err := f.svc.Create(context.Background(), f.owner, validFoundInput())
	require.NoError(t, err)
	assert.Equal(t, "other", item.Category)

	var stored models.FoundItem
	require.NoError(t, f.conn.First(&stored, "id = ?", item.ID).Error)
	require.NotNil(t, stored.CategoryID)
	var category models.Category
	require.NoError(t, f.conn.First(&category, "id = ?", *stored.CategoryID).Error)
	assert.Equal(t, "Other", category.Name)
}

func TestCreateLostItemStoresLostOnlyFields(t *testing.T) {
	f := newServiceFixture(t, nil)
	testdb.MustCategory(t, f.conn, "Electronics")

	item, err := f.svc.Create(context.Background(), f.owner, CreateInput{
		Type:              "LOST",
		Title:             "Laptop",
		Description:       "Black laptop with stickers on the lid",
		Category:          "electronics",
		Location:          "Library",
		Reward:            50,
		Urgency:           "high",
		ContactPreference: "phone",
		Images:            []string{"https://cdn.example.edu/laptop.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.ItemTypeLost, item.Type)
	assert.Equal(t, int64(50), item.Reward)
	assert.Equal(t, enums.UrgencyHigh, item.Urgency)
	assert.Equal(t, "phone", item.ContactPreference)
	assert.Equal(t, "electronics", item.Category)
	assert.Equal(t, "https://cdn.example.edu/laptop.png", item.Image)

	var stored models.LostItem
	require.NoError(t, f.conn.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, "HIGH", stored.Urgency)
	assert.Equal(t, enums.LostStatusActive, stored.Status)
	assert.True(t, stored.RewardAmount.Equal(stored.RewardAmount.Truncate(0)))
	assert.Equal(t, int64(50), stored.RewardAmount.IntPart())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := newServiceFixture(t, nil)

	input := validFoundInput()
	input.Title = "ab"
	input.Category = "vehicles"
	input.Date = "03/02/2026"
	input.Time = "5pm"
	input.Reward = -1
	input.Images = make([]string, 11)

	_, err := f.svc.Create(context.Background(), f.owner, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	for _, field := range []string{"title", "category", "date", "time", "reward", "images"} {
		assert.Contains(t, details, field)
	}
}

type failingResolver struct{}

func (failingResolver) ResolveCategory(ctx context.Context, name string) (uuid.UUID, error) {
	return uuid.Nil, &catalog.LookupError{Kind: catalog.KindCategory, Name: name, Err: errors.New("categories offline")}
}

func (failingResolver) ResolveLocation(ctx context.Context, name string) (uuid.UUID, error) {
	return uuid.Nil, &catalog.LookupError{Kind: catalog.KindLocation, Name: name, Err: errors.New("locations offline")}
}

func TestCreateSurvivesLookupFailures(t *testing.T) {
	f := newServiceFixture(t, failingResolver{})

	item, err := f.svc.Create(context.Background(), f.owner, validFoundInput())
	require.NoError(t, err)
	assert.Equal(t, "other", item.Category)
	assert.Equal(t, "Unknown", item.Location)
	assert.Contains(t, f.logs.String(), "categories offline")
	assert.Contains(t, f.logs.String(), "locations offline")
	assert.Equal(t, 2, strings.Count(f.logs.String(), "items.lookup_failed"))
}

func TestGetHidesInactiveItemsFromOthers(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, f.owner, validFoundInput())
	require.NoError(t, err)

	stranger := uuid.New()
	got, err := f.svc.Get(ctx, item.ID, "", &stranger)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, []string{"items.view_count"}, f.runner.Names)
	assert.Empty(t, f.runner.Errors)

	status := "archived"
	_, err = f.svc.Update(ctx, f.owner.ID, item.ID, "found", UpdateInput{Status: &status})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, item.ID, "", &stranger)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = f.svc.Get(ctx, item.ID, "found", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	own, err := f.svc.Get(ctx, item.ID, "found", &f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", own.Status)

	_, err = f.svc.Get(ctx, item.ID, "lost", &f.owner.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = f.svc.Get(ctx, item.ID, "misplaced", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateEnforcesOwnershipAndTypeRules(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, f.owner, validFoundInput())
	require.NoError(t, err)

	title := "Grey zip hoodie"
	_, err = f.svc.Update(ctx, uuid.New(), item.ID, "", UpdateInput{Title: &title})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	reward := int64(10)
	_, err = f.svc.Update(ctx, f.owner.ID, item.ID, "", UpdateInput{Reward: &reward})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	location := "Science Hall"
	contact := "phone"
	images := []string{"https://cdn.example.edu/hoodie.jpg"}
	updated, err := f.svc.Update(ctx, f.owner.ID, item.ID, "", UpdateInput{
		Title:             &title,
		Location:          &location,
		ContactPreference: &contact,
		Images:            &images,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Science Hall", updated.Location)
	assert.Equal(t, "phone", updated.ContactPreference)
	assert.Equal(t, "https://cdn.example.edu/hoodie.jpg", updated.Image)
}

func TestUpdateLostStatusReadsBackAsStoredCode(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	input := validFoundInput()
	input.Type = "lost"
	item, err := f.svc.Create(ctx, f.owner, input)
	require.NoError(t, err)

	status := "resolved"
	urgency := "low"
	updated, err := f.svc.Update(ctx, f.owner.ID, item.ID, "lost", UpdateInput{Status: &status, Urgency: &urgency})
	require.NoError(t, err)
	assert.Equal(t, "found", updated.Status)
	assert.Equal(t, enums.UrgencyLow, updated.Urgency)
}

func TestDashboardCountsAndSuccessRate(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	lost := testdb.LostItem(f.owner.ID, "Wallet", at(1))
	lost.Status = enums.LostStatusFound
	testdb.MustCreate(t, f.conn, lost)
	testdb.MustCreate(t, f.conn, testdb.LostItem(f.owner.ID, "Gloves", at(2)))
	found := testdb.FoundItem(f.owner.ID, "Calculator", at(3))
	testdb.MustCreate(t, f.conn, found)
	testdb.MustCreate(t, f.conn, testdb.LostItem(uuid.New(), "Someone else's", at(4)))

	claimer := testdb.MustProfile(t, f.conn, "Dorothy", "Vaughan", "dv@example.edu")
	testdb.MustCreate(t, f.conn, &models.ClaimRequest{
		ID:        uuid.New(),
		ItemID:    found.ID,
		ItemType:  enums.ItemTypeFound,
		ClaimerID: claimer.ID,
		Message:   "That calculator has my initials on it",
		Status:    enums.ClaimStatusPending,
	})

	dashboard, err := f.svc.Dashboard(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.LostReports)
	assert.Equal(t, int64(1), dashboard.FoundReports)
	assert.Equal(t, int64(1), dashboard.ItemsRecovered)
	assert.Equal(t, int64(1), dashboard.PendingClaims)
	assert.Equal(t, 33.3, dashboard.SuccessRate)
}

func TestSuccessRateRounding(t *testing.T) {
	assert.Equal(t, 0.0, successRate(0, 0))
	assert.Equal(t, 66.7, successRate(2, 3))
	assert.Equal(t, 100.0, successRate(4, 4))
}
