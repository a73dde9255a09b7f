// Package backend selects and constructs the persistent store from
// configuration.
package backend

import (
	"context"

	"tally/internal/core"
	"tally/internal/storage"
)

// Store is the full store surface the binaries wire up: entry
// persistence for the ledger, user rows for the session gate, and the
// read-only queries the digest worker needs.
type Store interface {
	InsertEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	ListEntries(ctx context.Context) ([]core.Entry, error)
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	MonthTotals(ctx context.Context, year, month int) (income, expenses core.Money, err error)
	CreateUser(ctx context.Context, email, passwordHash string) (storage.User, error)
	UserByEmail(ctx context.Context, email string) (storage.User, error)
	Close() error
}

// Type names a store implementation.
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	default:
		return false
	}
}
