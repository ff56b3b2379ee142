package importers

import (
	"strings"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// CategoryResolver maps human-entered category references to category IDs.
// It is built once per batch and never modified.
type CategoryResolver struct {
	categories []entities.Category
	byID       map[string]entities.Category
}

// NewCategoryResolver indexes a category snapshot.
func NewCategoryResolver(categories []entities.Category) *CategoryResolver {
	byID := make(map[string]entities.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &CategoryResolver{categories: categories, byID: byID}
}

// Resolve returns the category ID for a row. A category_id that names a known
// category wins. Otherwise category_name is compared case-insensitively with
// both locale names; the first category in snapshot order that matches is used.
func (r *CategoryResolver) Resolve(categoryID, categoryName string) (string, error) {
	categoryID = strings.TrimSpace(categoryID)
	categoryName = strings.TrimSpace(categoryName)

	if categoryID != "" {
		if _, ok := r.byID[categoryID]; ok {
			return categoryID, nil
		}
	}

	if categoryName == "" {
		if categoryID != "" {
			return "", referenceNotFound(categoryID)
		}
		return "", missingField(FieldCategoryName)
	}

	for _, c := range r.categories {
		if strings.EqualFold(c.Name, categoryName) ||
			(c.NameES != "" && strings.EqualFold(c.NameES, categoryName)) {
			return c.ID, nil
		}
	}

	return "", referenceNotFound(categoryName)
}

// NameOf returns the primary-locale name of a category, or "" if unknown.
func (r *CategoryResolver) NameOf(id string) string {
	return r.byID[id].Name
}
