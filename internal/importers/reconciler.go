package importers

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

var errNoEntityReturned = errors.New("store returned no entity")

// matchIndex answers "does this row describe an existing entity?" using the
// snapshot taken at batch start. Entities created during the batch are only
// added when write tracking is enabled.
type matchIndex struct {
	mu   sync.RWMutex
	ids  map[string]struct{}
	keys map[string]string
}

func newMatchIndex() *matchIndex {
	return &matchIndex{
		ids:  make(map[string]struct{}),
		keys: make(map[string]string),
	}
}

// add registers an entity. When two entities share a natural key the first
// one added keeps it.
func (m *matchIndex) add(id, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		m.ids[id] = struct{}{}
	}
	if key == "" {
		return
	}
	if _, taken := m.keys[key]; !taken {
		m.keys[key] = id
	}
}

// match returns the id of the entity a row refers to. An explicit id is
// checked before the natural key.
func (m *matchIndex) match(id, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id != "" {
		if _, ok := m.ids[id]; ok {
			return id, true
		}
	}
	if key != "" {
		if existing, ok := m.keys[key]; ok {
			return existing, true
		}
	}
	return "", false
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func menuItemKey(categoryID, name string) string {
	return categoryID + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

func categoryIndex(categories []entities.Category) *matchIndex {
	idx := newMatchIndex()
	for _, c := range categories {
		idx.add(c.ID, categoryKey(c.Name))
	}
	return idx
}

func menuItemIndex(items []entities.MenuItem) *matchIndex {
	idx := newMatchIndex()
	for _, item := range items {
		idx.add(item.ID, menuItemKey(item.CategoryID, item.Name))
	}
	return idx
}

type (
	createFunc[D any] func(ctx context.Context, draft D) (string, error)
	updateFunc[D any] func(ctx context.Context, id string, draft D) error
)

// reconciler decides between create and update for a prepared row and calls
// the store.
type reconciler[D any] struct {
	index  *matchIndex
	create createFunc[D]
	update updateFunc[D]
	track  bool
	dryRun bool
}

// reconcile matches the row against the index and writes it. Store errors are
// returned as row failures unless they make the whole store unusable.
func (r *reconciler[D]) reconcile(ctx context.Context, id, key string, draft D) (Outcome, error) {
	target, matched := r.index.match(id, key)

	if r.dryRun {
		if !matched && r.track {
			r.index.add("", key)
		}
		if matched {
			return OutcomeUpdated, nil
		}
		return OutcomeCreated, nil
	}

	if matched {
		if err := r.update(ctx, target, draft); err != nil {
			return OutcomeFailed, storeFailure(err)
		}
		return OutcomeUpdated, nil
	}

	newID, err := r.create(ctx, draft)
	if err != nil {
		return OutcomeFailed, storeFailure(err)
	}
	if newID == "" {
		return OutcomeFailed, storeFailure(errNoEntityReturned)
	}
	if r.track {
		r.index.add(newID, key)
	}
	return OutcomeCreated, nil
}

// groupKey identifies rows that must be committed by the same worker: rows
// that target the same existing entity or share a natural key.
func (r *reconciler[D]) groupKey(id, key string) string {
	if target, ok := r.index.match(id, key); ok {
		return "id:" + target
	}
	return "key:" + key
}

func newCategoryReconciler(store EntityStore, existing []entities.Category, opts Options) *reconciler[entities.CategoryDraft] {
	return &reconciler[entities.CategoryDraft]{
		index: categoryIndex(existing),
		create: func(ctx context.Context, draft entities.CategoryDraft) (string, error) {
			draft.ID = ""
			created, err := store.CreateCategory(ctx, draft)
			if err != nil || created == nil {
				return "", err
			}
			return created.ID, nil
		},
		update: func(ctx context.Context, id string, draft entities.CategoryDraft) error {
			_, err := store.UpdateCategory(ctx, id, draft)
			return err
		},
		track:  opts.TrackBatchWrites,
		dryRun: opts.DryRun,
	}
}

func newMenuItemReconciler(store EntityStore, existing []entities.MenuItem, opts Options) *reconciler[entities.MenuItemDraft] {
	return &reconciler[entities.MenuItemDraft]{
		index: menuItemIndex(existing),
		create: func(ctx context.Context, draft entities.MenuItemDraft) (string, error) {
			draft.ID = ""
			created, err := store.CreateMenuItem(ctx, draft)
			if err != nil || created == nil {
				return "", err
			}
			return created.ID, nil
		},
		update: func(ctx context.Context, id string, draft entities.MenuItemDraft) error {
			_, err := store.UpdateMenuItem(ctx, id, draft)
			return err
		},
		track:  opts.TrackBatchWrites,
		dryRun: opts.DryRun,
	}
}
