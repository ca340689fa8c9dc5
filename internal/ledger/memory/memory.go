package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"smartbudget/internal/core"
	"smartbudget/internal/ledger"
)

// Store keeps entries and categories in process memory.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]core.Entry
	cats    []core.Category
	nextID  int64
	nextCat int64
}

var _ ledger.Store = (*Store)(nil)

// New returns a store seeded with the given category names. Blank and
// duplicate names are skipped.
func New(categories []string) *Store {
	s := &Store{entries: make(map[int64]core.Entry)}
	for _, name := range categories {
		name = strings.TrimSpace(name)
		if name == "" || s.hasCategory(name) {
			continue
		}
		s.nextCat++
		s.cats = append(s.cats, core.Category{ID: s.nextCat, Name: name})
	}
	return s
}

// NewDefault returns a store seeded with core.DefaultCategories.
func NewDefault() *Store {
	return New(core.DefaultCategories)
}

func (s *Store) hasCategory(name string) bool {
	for _, c := range s.cats {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) Create(_ context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) Update(_ context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return core.Entry{}, ledger.ErrNotFound
	}
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return core.Entry{}, ledger.ErrNotFound
	}
	return e, nil
}

func (s *Store) List(_ context.Context, f core.Filter) ([]core.Entry, error) {
	s.mu.RLock()
	out := make([]core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b core.Entry) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	out := slices.Clone(s.cats)
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b core.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *Store) AddCategory(_ context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCategory(name) {
		return core.Category{}, ledger.ErrCategoryExists
	}
	s.nextCat++
	c := core.Category{ID: s.nextCat, Name: name}
	s.cats = append(s.cats, c)
	return c, nil
}

func (s *Store) Stats(_ context.Context) (ledger.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.Stats{Entries: len(s.entries), Categories: len(s.cats)}, nil
}
