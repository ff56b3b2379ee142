package importers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// memStore is an in-memory EntityStore for engine tests.
type memStore struct {
	mu         sync.Mutex
	categories map[string]*entities.Category
	items      map[string]*entities.MenuItem
	nextID     int

	creates int
	updates int
	updated []string

	// failNames makes writes for these names fail with a row-scoped error.
	failNames map[string]error
	// panicName makes a write for this name panic.
	panicName string
	// unavailableAfter makes every write after this many calls fail with
	// ErrStoreUnavailable. Zero disables it.
	unavailableAfter int
	calls            int
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[string]*entities.Category),
		items:      make(map[string]*entities.MenuItem),
		failNames:  make(map[string]error),
	}
}

func (s *memStore) check(name string) error {
	s.calls++
	if s.unavailableAfter > 0 && s.calls > s.unavailableAfter {
		return fmt.Errorf("connection refused: %w", ErrStoreUnavailable)
	}
	if s.panicName != "" && s.panicName == name {
		panic("store exploded")
	}
	if err, ok := s.failNames[name]; ok {
		return err
	}
	return nil
}

func (s *memStore) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) CreateCategory(_ context.Context, draft entities.CategoryDraft) (*entities.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(draft.Name); err != nil {
		return nil, err
	}
	c := &entities.Category{ID: s.newID("cat")}
	draft.Apply(c)
	s.categories[c.ID] = c
	s.creates++
	return c, nil
}

func (s *memStore) UpdateCategory(_ context.Context, id string, draft entities.CategoryDraft) (*entities.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(draft.Name); err != nil {
		return nil, err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s not found", id)
	}
	draft.Apply(c)
	s.updates++
	s.updated = append(s.updated, id)
	return c, nil
}

func (s *memStore) CreateMenuItem(_ context.Context, draft entities.MenuItemDraft) (*entities.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(draft.Name); err != nil {
		return nil, err
	}
	item := &entities.MenuItem{ID: s.newID("item")}
	draft.Apply(item)
	s.items[item.ID] = item
	s.creates++
	return item, nil
}

func (s *memStore) UpdateMenuItem(_ context.Context, id string, draft entities.MenuItemDraft) (*entities.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(draft.Name); err != nil {
		return nil, err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item %s not found", id)
	}
	draft.Apply(item)
	s.updates++
	s.updated = append(s.updated, id)
	return item, nil
}

func (s *memStore) categorySnapshot() []entities.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out
}

func (s *memStore) itemSnapshot() []entities.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out
}

func (s *memStore) categoryByName(name string) *entities.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func (s *memStore) seedCategory(name, nameES string) entities.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &entities.Category{ID: s.newID("cat"), Name: name, NameES: nameES, IsActive: true}
	s.categories[c.ID] = c
	return *c
}

func (s *memStore) seedMenuItem(categoryID, name string) entities.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := &entities.MenuItem{ID: s.newID("item"), CategoryID: categoryID, Name: name, IsAvailable: true}
	s.items[item.ID] = item
	return *item
}
