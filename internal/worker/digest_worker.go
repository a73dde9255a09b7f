// Package worker consumes entry-created events and logs a running
// monthly digest. It shares the store with the server process but only
// ever reads from it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/event"
	"tally/internal/storage"
)

// EntryReader is the read-only slice of the store the worker uses.
type EntryReader interface {
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	MonthTotals(ctx context.Context, year, month int) (income, expenses core.Money, err error)
}

// DigestWorker turns entry events into month-digest log lines.
type DigestWorker struct {
	store EntryReader
}

func NewDigestWorker(store EntryReader) *DigestWorker {
	return &DigestWorker{store: store}
}

// HandleEntryCreated processes one event: re-read the authoritative row,
// recompute the month totals, log the digest. A missing row is dropped
// rather than requeued, anything else is retried by the broker.
func (w *DigestWorker) HandleEntryCreated(ctx context.Context, msg *event.EntryCreatedMessage) error {
	entry, err := w.store.GetEntry(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Entry referenced by event no longer exists",
				"id", msg.ID)
			return nil
		}
		return fmt.Errorf("get entry from storage: %w", err)
	}

	year, month := entry.Date.Year(), int(entry.Date.Month())
	income, expenses, err := w.store.MonthTotals(ctx, year, month)
	if err != nil {
		return fmt.Errorf("month totals: %w", err)
	}

	slog.InfoContext(ctx, "Month digest",
		"entry_id", entry.ID,
		"type", entry.Type,
		"category", entry.Category,
		"amount", entry.Amount.Decimal(),
		"year", year,
		"month", month,
		"month_income", income.Decimal(),
		"month_expenses", expenses.Decimal(),
		"month_balance", income.Sub(expenses).Decimal())

	return nil
}
