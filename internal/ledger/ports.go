package ledger

import (
	"context"

	"tally/internal/core"
)

// Ports the ledger service depends on. Concrete implementations live in
// internal/storage (SQLite), internal/storage/memory, internal/session
// and internal/event.
type (
	// Store persists entries. InsertEntry assigns the id; ListEntries
	// returns every row in store order.
	Store interface {
		InsertEntry(ctx context.Context, e core.Entry) (core.Entry, error)
		ListEntries(ctx context.Context) ([]core.Entry, error)
	}

	// Gate refuses mutating operations when no session is active.
	Gate interface {
		RequireAuth(ctx context.Context) error
	}

	// Publisher announces committed entries to external consumers.
	// Publishing is best-effort and never fails the write.
	Publisher interface {
		PublishEntryCreated(ctx context.Context, e core.Entry) error
	}
)
