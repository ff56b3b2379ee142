package importers

import (
	"context"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// EntityStore persists catalog records. Implementations wrap
// ErrStoreUnavailable when the store as a whole is unusable; any other error
// fails only the row that caused it.
type EntityStore interface {
	CreateCategory(ctx context.Context, draft entities.CategoryDraft) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id string, draft entities.CategoryDraft) (*entities.Category, error)
	CreateMenuItem(ctx context.Context, draft entities.MenuItemDraft) (*entities.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, draft entities.MenuItemDraft) (*entities.MenuItem, error)
}
