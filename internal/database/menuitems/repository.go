// Package menuitems provides database operations for menu items and their
// allergen associations.
package menuitems

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// ErrNotFound is returned when a menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Repository handles all menu item database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new menu items repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) withAllergens(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Allergens", func(db *gorm.DB) *gorm.DB {
		return db.Order("allergens.name ASC")
	})
}

// List returns every menu item with allergens, ordered for display.
func (r *Repository) List(ctx context.Context) ([]entities.MenuItem, error) {
	var items []entities.MenuItem
	err := r.withAllergens(ctx).Order("category_id ASC, display_order ASC, name ASC").Find(&items).Error
	return items, err
}

// ListByCategory returns the menu items of one category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID string) ([]entities.MenuItem, error) {
	var items []entities.MenuItem
	err := r.withAllergens(ctx).Where("category_id = ?", categoryID).
		Order("display_order ASC, name ASC").Find(&items).Error
	return items, err
}

// GetByID retrieves a menu item with its allergens.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.MenuItem, error) {
	var item entities.MenuItem
	err := r.withAllergens(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a menu item built from a draft. The store assigns the ID.
func (r *Repository) Create(ctx context.Context, draft entities.MenuItemDraft) (*entities.MenuItem, error) {
	item := &entities.MenuItem{}
	draft.Apply(item)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update overwrites the editable fields of a menu item. Allergens are kept.
func (r *Repository) Update(ctx context.Context, id string, draft entities.MenuItemDraft) (*entities.MenuItem, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	draft.Apply(item)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SetAllergens replaces the allergens of a menu item. Unknown allergen names
// are created.
func (r *Repository) SetAllergens(ctx context.Context, id string, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item entities.MenuItem
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}

		allergens := make([]entities.Allergen, 0, len(names))
		for _, name := range names {
			allergen := entities.Allergen{Name: name}
			if err := tx.Where(entities.Allergen{Name: name}).FirstOrCreate(&allergen).Error; err != nil {
				return fmt.Errorf("failed to load allergen %s: %w", name, err)
			}
			allergens = append(allergens, allergen)
		}

		return tx.Model(&item).Association("Allergens").Replace(allergens)
	})
}

// Count returns the number of menu items.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.MenuItem{}).Count(&count).Error
	return count, err
}
