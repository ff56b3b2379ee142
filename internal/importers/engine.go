package importers

import (
	"context"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

const (
	KindCategories = "categories"
	KindMenuItems  = "menu_items"
)

// Options tune how an Engine commits rows.
type Options struct {
	// Concurrency above 1 commits independent rows in parallel.
	Concurrency int
	// TrackBatchWrites lets rows match entities created earlier in the same
	// batch. Without it, two new rows with the same natural key create two
	// entities.
	TrackBatchWrites bool
	// DryRun maps, resolves and matches rows without calling the store.
	DryRun bool
}

// Engine imports catalog CSV documents through an EntityStore.
type Engine struct {
	store  EntityStore
	mapper *Mapper
	opts   Options
}

func NewEngine(store EntityStore, opts Options) *Engine {
	return &Engine{
		store:  store,
		mapper: NewMapper(),
		opts:   opts,
	}
}

// ImportCategories imports a categories CSV. existing is the snapshot rows are
// matched against.
func (e *Engine) ImportCategories(ctx context.Context, csvText string, existing []entities.Category) ImportResult {
	return e.CategoryBatch(csvText, existing).Run(ctx)
}

// ImportMenuItems imports a menu items CSV. Category references are resolved
// against categories; rows are matched against existing.
func (e *Engine) ImportMenuItems(ctx context.Context, csvText string, categories []entities.Category, existing []entities.MenuItem) ImportResult {
	return e.MenuItemBatch(csvText, categories, existing).Run(ctx)
}

// CategoryBatch prepares a categories batch without running it.
func (e *Engine) CategoryBatch(csvText string, existing []entities.Category) *Batch[entities.CategoryDraft] {
	prepare := func(row *ImportRow[entities.CategoryDraft]) error {
		draft, err := e.mapper.MapCategory(row.Fields, row.Position)
		if err != nil {
			return err
		}
		row.Draft = draft
		row.ID = draft.ID
		row.Key = categoryKey(draft.Name)
		return nil
	}

	rec := newCategoryReconciler(e.store, existing, e.opts)
	return newBatch(KindCategories, csvText, prepare, rec, e.opts.Concurrency)
}

// MenuItemBatch prepares a menu items batch without running it.
func (e *Engine) MenuItemBatch(csvText string, categories []entities.Category, existing []entities.MenuItem) *Batch[entities.MenuItemDraft] {
	resolver := NewCategoryResolver(categories)

	prepare := func(row *ImportRow[entities.MenuItemDraft]) error {
		mapped, err := e.mapper.MapMenuItem(row.Fields, row.Position)
		if err != nil {
			return err
		}

		categoryID, err := resolver.Resolve(mapped.Draft.CategoryID, mapped.CategoryName)
		if err != nil {
			return err
		}
		mapped.Draft.CategoryID = categoryID

		if err := e.mapper.Validate(mapped.Draft); err != nil {
			return err
		}

		row.Draft = mapped.Draft
		row.ID = mapped.Draft.ID
		row.Key = menuItemKey(categoryID, mapped.Draft.Name)
		return nil
	}

	rec := newMenuItemReconciler(e.store, existing, e.opts)
	return newBatch(KindMenuItems, csvText, prepare, rec, e.opts.Concurrency)
}
