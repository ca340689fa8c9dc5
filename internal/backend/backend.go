package backend

import (
	"context"
	"errors"

	"smartbudget/internal/ledger"
	"smartbudget/internal/services"
)

// Type represents the storage backend behind the ledger
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types
func Types() []Type {
	return []Type{Memory, SQLite}
}

// Pinger is implemented by backends with a connection to check
type Pinger interface {
	Ping(ctx context.Context) error
}

// CleanupFunc releases a resource opened by the factory
type CleanupFunc func() error

// Result holds everything the factory opened. Pinger and Publisher are nil
// when the backend has no connection or AMQP is disabled.
type Result struct {
	Type      Type
	Store     ledger.Store
	Pinger    Pinger
	Publisher services.Publisher

	cleanups []CleanupFunc
}

func (r *Result) onClose(fn CleanupFunc) {
	r.cleanups = append(r.cleanups, fn)
}

// Close releases resources in reverse order of creation
func (r *Result) Close() error {
	var errs []error
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		if err := r.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.cleanups = nil
	return errors.Join(errs...)
}
