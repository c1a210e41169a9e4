package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umtlostfound/lostfound-backend/internal/testdb"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
)

func TestResolveCategoryMatchesCaseInsensitively(t *testing.T) {
	conn := testdb.Open(t)
	electronics := testdb.MustCategory(t, conn, "Electronics")

	id, err := NewResolver(conn).ResolveCategory(context.Background(), "  electronics ")
	require.NoError(t, err)
	assert.Equal(t, electronics.ID, id)
}

func TestResolveCategoryFallsBackToOther(t *testing.T) {
	conn := testdb.Open(t)
	other := testdb.MustCategory(t, conn, "Other")

	id, err := NewResolver(conn).ResolveCategory(context.Background(), "musical instruments")
	require.NoError(t, err)
	assert.Equal(t, other.ID, id)
}

func TestResolveCategoryCreatesOtherWhenMissing(t *testing.T) {
	conn := testdb.Open(t)
	resolver := NewResolver(conn)

	id, err := resolver.ResolveCategory(context.Background(), "books")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	var created models.Category
	require.NoError(t, conn.First(&created, "id = ?", id).Error)
	assert.Equal(t, "Other", created.Name)
	assert.Equal(t, "help-circle", created.Icon)
	assert.Equal(t, "#6B7280", created.Color)
	require.NotNil(t, created.Description)
	assert.Equal(t, "Miscellaneous items", *created.Description)

	again, err := resolver.ResolveCategory(context.Background(), "books")
	require.NoError(t, err)
	assert.Equal(t, id, again, "second resolution must reuse the created fallback")
}

func TestResolveLocationPrefersExactThenShortestSubstring(t *testing.T) {
	conn := testdb.Open(t)
	library := testdb.MustLocation(t, conn, "Main Library")
	testdb.MustLocation(t, conn, "Main Library Annex East")
	gym := testdb.MustLocation(t, conn, "Gym")
	resolver := NewResolver(conn)
	ctx := context.Background()

	id, err := resolver.ResolveLocation(ctx, "gym")
	require.NoError(t, err)
	assert.Equal(t, gym.ID, id)

	id, err = resolver.ResolveLocation(ctx, "library")
	require.NoError(t, err)
	assert.Equal(t, library.ID, id)
}

func TestResolveLocationCreatesNewRow(t *testing.T) {
	conn := testdb.Open(t)
	resolver := NewResolver(conn)

	id, err := resolver.ResolveLocation(context.Background(), "New Gym Annex")
	require.NoError(t, err)

	var created models.Location
	require.NoError(t, conn.First(&created, "id = ?", id).Error)
	assert.Equal(t, "New Gym Annex", created.Name)
	assert.Equal(t, "New Gym Annex", created.Building)
	require.NotNil(t, created.Description)
	assert.Equal(t, "Location: New Gym Annex", *created.Description)
	assert.True(t, created.IsActive)
}

func TestResolveLocationTreatsWildcardsLiterally(t *testing.T) {
	conn := testdb.Open(t)
	testdb.MustLocation(t, conn, "Room 101")
	resolver := NewResolver(conn)

	id, err := resolver.ResolveLocation(context.Background(), "%")
	require.NoError(t, err)

	var created models.Location
	require.NoError(t, conn.First(&created, "id = ?", id).Error)
	assert.Equal(t, "%", created.Name)
}

func TestResolveLocationRejectsEmptyText(t *testing.T) {
	_, err := NewResolver(testdb.Open(t)).ResolveLocation(context.Background(), "   ")
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, KindLocation, lookupErr.Kind)
}

func TestResolveReportsStoreFailures(t *testing.T) {
	conn := testdb.Open(t)
	require.NoError(t, conn.Exec("DROP TABLE categories").Error)

	_, err := NewResolver(conn).ResolveCategory(context.Background(), "Electronics")
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, KindCategory, lookupErr.Kind)
	assert.Equal(t, "Electronics", lookupErr.Name)
}

func TestListReferenceRowsSkipsInactive(t *testing.T) {
	conn := testdb.Open(t)
	testdb.MustCategory(t, conn, "Bags")
	testdb.MustCategory(t, conn, "Books")
	retired := testdb.MustCategory(t, conn, "Pagers")
	require.NoError(t, conn.Model(&models.Category{}).Where("id = ?", retired.ID).Update("is_active", false).Error)
	testdb.MustLocation(t, conn, "Student Union")

	resolver := NewResolver(conn)
	categories, err := resolver.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Bags", categories[0].Name)
	assert.Equal(t, "Books", categories[1].Name)

	locations, err := resolver.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 1)
}
