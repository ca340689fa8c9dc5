// Package ledger declares the storage ports every backend implements.
package ledger

import (
	"context"
	"errors"

	"smartbudget/internal/core"
)

var (
	ErrNotFound       = errors.New("entry not found")
	ErrCategoryExists = errors.New("category already exists")
)

// Stats summarises the stored data for the admin view.
type Stats struct {
	Entries    int
	Categories int
}

// Ports for outbound adapters.
type (
	EntryWriter interface {
		// Create stores e and returns it with its assigned ID.
		Create(ctx context.Context, e core.Entry) (core.Entry, error)
		// Update replaces the entry with e.ID. ErrNotFound if absent.
		Update(ctx context.Context, e core.Entry) (core.Entry, error)
		// Delete removes the entry with id. ErrNotFound if absent.
		Delete(ctx context.Context, id int64) error
	}

	EntryReader interface {
		Get(ctx context.Context, id int64) (core.Entry, error)
		// List returns the entries matching f, newest date first.
		List(ctx context.Context, f core.Filter) ([]core.Entry, error)
	}

	CategoryStore interface {
		// Categories returns every category ordered by name.
		Categories(ctx context.Context) ([]core.Category, error)
		// AddCategory stores a new category. Names are unique ignoring case.
		AddCategory(ctx context.Context, name string) (core.Category, error)
	}

	StatsReader interface {
		Stats(ctx context.Context) (Stats, error)
	}
)

// Store is the full set of operations a backend provides.
type Store interface {
	EntryWriter
	EntryReader
	CategoryStore
	StatsReader
}
