// Package categories provides database operations for menu categories.
//
// # Usage
//
//	repo := categories.NewRepository(db)
//	all, err := repo.List(ctx)
package categories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// ErrNotFound is returned when a category does not exist.
var ErrNotFound = errors.New("category not found")

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every category ordered for display.
func (r *Repository) List(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("display_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName retrieves a category by case-insensitive name.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a category built from a draft. The store assigns the ID.
func (r *Repository) Create(ctx context.Context, draft entities.CategoryDraft) (*entities.Category, error) {
	category := &entities.Category{}
	draft.Apply(category)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update overwrites the editable fields of an existing category.
func (r *Repository) Update(ctx context.Context, id string, draft entities.CategoryDraft) (*entities.Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	draft.Apply(category)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Count returns the number of categories.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Category{}).Count(&count).Error
	return count, err
}
