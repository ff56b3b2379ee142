package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/brewhouse/cafe-admin/internal/database/categories"
	"github.com/brewhouse/cafe-admin/internal/database/menuitems"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
)

// CatalogStore persists imported categories and menu items. It is the
// EntityStore used by the import engine and the reader used by exports.
type CatalogStore struct {
	categories *categories.Repository
	menuItems  *menuitems.Repository
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{
		categories: categories.NewRepository(db),
		menuItems:  menuitems.NewRepository(db),
	}
}

func (s *CatalogStore) CreateCategory(ctx context.Context, draft entities.CategoryDraft) (*entities.Category, error) {
	category, err := s.categories.Create(ctx, draft)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to create category %q: %w", draft.Name, err))
	}
	return category, nil
}

func (s *CatalogStore) UpdateCategory(ctx context.Context, id string, draft entities.CategoryDraft) (*entities.Category, error) {
	category, err := s.categories.Update(ctx, id, draft)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to update category %q: %w", draft.Name, err))
	}
	return category, nil
}

func (s *CatalogStore) CreateMenuItem(ctx context.Context, draft entities.MenuItemDraft) (*entities.MenuItem, error) {
	item, err := s.menuItems.Create(ctx, draft)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to create menu item %q: %w", draft.Name, err))
	}
	return item, nil
}

func (s *CatalogStore) UpdateMenuItem(ctx context.Context, id string, draft entities.MenuItemDraft) (*entities.MenuItem, error) {
	item, err := s.menuItems.Update(ctx, id, draft)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to update menu item %q: %w", draft.Name, err))
	}
	return item, nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]entities.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogStore) ListMenuItems(ctx context.Context) ([]entities.MenuItem, error) {
	return s.menuItems.List(ctx)
}

// SetAllergens replaces the allergens of a menu item.
func (s *CatalogStore) SetAllergens(ctx context.Context, menuItemID string, names []string) error {
	return s.menuItems.SetAllergens(ctx, menuItemID, names)
}

// classify marks errors that mean the database cannot be used at all.
func classify(err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%w: %w", importers.ErrStoreUnavailable, err)
	}
	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "unable to open database file") ||
		strings.Contains(msg, "disk I/O error")
}
