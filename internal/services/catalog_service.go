package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/exporters"
	"github.com/brewhouse/cafe-admin/internal/importers"
)

// CatalogService loads catalog snapshots from the store and runs imports and
// exports against them.
type CatalogService struct {
	store  CatalogStore
	engine *importers.Engine
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store CatalogStore, opts importers.Options) *CatalogService {
	return &CatalogService{
		store:  store,
		engine: importers.NewEngine(store, opts),
	}
}

// ParseKind accepts "categories", "menu-items" and "menu_items".
func ParseKind(s string) (entities.ImportKind, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case string(entities.ImportKindCategories):
		return entities.ImportKindCategories, nil
	case string(entities.ImportKindMenuItems):
		return entities.ImportKindMenuItems, nil
	}
	return "", fmt.Errorf("unknown catalog kind %q (expected categories or menu-items)", s)
}

// Import dispatches on kind.
func (s *CatalogService) Import(ctx context.Context, kind entities.ImportKind, csvText string) (importers.ImportResult, error) {
	switch kind {
	case entities.ImportKindCategories:
		return s.ImportCategories(ctx, csvText)
	case entities.ImportKindMenuItems:
		return s.ImportMenuItems(ctx, csvText)
	}
	return importers.ImportResult{}, fmt.Errorf("unknown catalog kind %q", kind)
}

// ImportCategories imports a categories CSV against the current store
// contents. An error means the snapshot could not be loaded and no row was
// processed.
func (s *CatalogService) ImportCategories(ctx context.Context, csvText string) (importers.ImportResult, error) {
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return importers.ImportResult{}, fmt.Errorf("failed to load categories: %w", err)
	}
	return s.engine.ImportCategories(ctx, csvText, existing), nil
}

// ImportMenuItems imports a menu items CSV against the current store contents.
func (s *CatalogService) ImportMenuItems(ctx context.Context, csvText string) (importers.ImportResult, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return importers.ImportResult{}, fmt.Errorf("failed to load categories: %w", err)
	}
	existing, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return importers.ImportResult{}, fmt.Errorf("failed to load menu items: %w", err)
	}
	return s.engine.ImportMenuItems(ctx, csvText, categories, existing), nil
}

// Export renders the current catalog of one kind as CSV.
func (s *CatalogService) Export(ctx context.Context, kind entities.ImportKind) (string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load categories: %w", err)
	}
	if kind == entities.ImportKindCategories {
		return exporters.ExportCategories(categories), nil
	}

	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load menu items: %w", err)
	}
	return exporters.ExportMenuItems(items, categories), nil
}

// Template returns the import template for kind.
func Template(kind entities.ImportKind) string {
	if kind == entities.ImportKindCategories {
		return exporters.CategoryTemplate()
	}
	return exporters.MenuItemTemplate()
}

func (s *CatalogService) Categories(ctx context.Context) ([]entities.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) MenuItems(ctx context.Context) ([]entities.MenuItem, error) {
	return s.store.ListMenuItems(ctx)
}
