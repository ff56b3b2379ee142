package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewhouse/cafe-admin/internal/database"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/tabular"
)

func setupService(t *testing.T, opts importers.Options) (*CatalogService, *database.Database) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "cafe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalogService(database.NewCatalogStore(db.DB), opts), db
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]entities.ImportKind{
		"categories": entities.ImportKindCategories,
		"Categories": entities.ImportKindCategories,
		"menu-items": entities.ImportKindMenuItems,
		"menu_items": entities.ImportKindMenuItems,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("allergens")
	assert.Error(t, err)
}

func TestCatalogService_ImportAndExport(t *testing.T) {
	svc, _ := setupService(t, importers.Options{})
	ctx := context.Background()

	result, err := svc.Import(ctx, entities.ImportKindCategories, "name,name_es\nCoffee,Café\nPastries,Pasteles")
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)

	result, err = svc.Import(ctx, entities.ImportKindMenuItems, "name,category_name,price\nLatte,Coffee,3500\nConcha,pasteles,1200")
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)

	result, err = svc.ImportMenuItems(ctx, "name,category_name,price\nLatte,Coffee,3600")
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)

	out, err := svc.Export(ctx, entities.ImportKindMenuItems)
	require.NoError(t, err)
	rows := tabular.Decode(out)
	require.Len(t, rows, 3)
	assert.Equal(t, "category_name", rows[0][2])

	var latte []string
	for _, row := range rows[1:] {
		if row[3] == "Latte" {
			latte = row
		}
	}
	require.NotNil(t, latte)
	assert.Equal(t, "Coffee", latte[2])
	assert.Equal(t, "3600", latte[7])

	out, err = svc.Export(ctx, entities.ImportKindCategories)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,name,name_es"))
}

func TestCatalogService_ExportedFileReimportsWithoutDuplicates(t *testing.T) {
	svc, _ := setupService(t, importers.Options{})
	ctx := context.Background()

	_, err := svc.ImportCategories(ctx, "name\nCoffee\nTea")
	require.NoError(t, err)
	_, err = svc.ImportMenuItems(ctx, "name,category_name\nLatte,Coffee\nChai,Tea")
	require.NoError(t, err)

	exported, err := svc.Export(ctx, entities.ImportKindMenuItems)
	require.NoError(t, err)

	result, err := svc.ImportMenuItems(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, 2, result.UpdatedCount)
	assert.Equal(t, 0, result.FailedCount)

	items, err := svc.MenuItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCatalogService_DryRunWritesNothing(t *testing.T) {
	svc, _ := setupService(t, importers.Options{DryRun: true})
	ctx := context.Background()

	result, err := svc.ImportCategories(ctx, "name\nCoffee\n")
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestCatalogService_SnapshotFailure(t *testing.T) {
	svc, db := setupService(t, importers.Options{})
	require.NoError(t, db.Close())

	_, err := svc.ImportCategories(context.Background(), "name\nCoffee\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load categories")

	_, err = svc.Import(context.Background(), entities.ImportKind("nope"), "")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, importers.ErrStoreUnavailable))
}

func TestTemplate(t *testing.T) {
	assert.True(t, strings.HasPrefix(Template(entities.ImportKindCategories), "name,name_es,description"))
	assert.True(t, strings.HasPrefix(Template(entities.ImportKindMenuItems), "name,name_es,category_name"))
}
