package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"tally/internal/core"
)

type fakeStore struct {
	entries    []core.Entry
	nextID     int64
	insertErr  error
	listErr    error
	insertCall int
}

func (f *fakeStore) InsertEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	f.insertCall++
	if f.insertErr != nil {
		return core.Entry{}, f.insertErr
	}
	f.nextID++
	e.ID = f.nextID
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeStore) ListEntries(ctx context.Context) ([]core.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Entry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

type fakeGate struct{ err error }

func (g fakeGate) RequireAuth(ctx context.Context) error { return g.err }

type recordingPublisher struct{ published []core.Entry }

func (p *recordingPublisher) PublishEntryCreated(ctx context.Context, e core.Entry) error {
	p.published = append(p.published, e)
	return nil
}

func draft() core.Draft {
	return core.Draft{
		Amount:      "12.34",
		Category:    "Food",
		Description: "Coffee",
		Type:        "expense",
	}
}

func loadedService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	svc := NewService(store, nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc
}

func TestAddEntryRoundTrip(t *testing.T) {
	store := &fakeStore{}
	svc := loadedService(t, store)

	before := len(svc.Entries(NewestFirst))
	saved, err := svc.AddEntry(context.Background(), draft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("entry should carry the store-assigned id")
	}
	if saved.Amount.Cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d", saved.Amount.Cents)
	}

	after := svc.Entries(NewestFirst)
	if len(after) != before+1 {
		t.Fatalf("expected exactly one more entry, got %d -> %d", before, len(after))
	}
	got := after[0]
	if got.Description != "Coffee" || got.Category != "Food" || got.Type != core.Expense {
		t.Fatalf("cached entry mismatch: %+v", got)
	}
}

func TestAddEntryRejectsBeforeLoad(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil)
	_, err := svc.AddEntry(context.Background(), draft())
	if !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestAddEntryValidationNeverReachesStore(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*core.Draft)
		want   error
	}{
		{"zero amount", func(d *core.Draft) { d.Amount = "0" }, core.ErrInvalidAmount},
		{"negative amount", func(d *core.Draft) { d.Amount = "-1" }, core.ErrInvalidAmount},
		{"empty description", func(d *core.Draft) { d.Description = "" }, core.ErrEmptyDescription},
		{"unknown category", func(d *core.Draft) { d.Category = "Unicorns" }, core.ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := loadedService(t, store)

			d := draft()
			tc.mutate(&d)
			_, err := svc.AddEntry(context.Background(), d)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if store.insertCall != 0 {
				t.Fatal("validation failure must not reach the store")
			}
			if len(svc.Entries(NewestFirst)) != 0 {
				t.Fatal("cache must be unchanged after validation failure")
			}
		})
	}
}

func TestAddEntryStorageFailureLeavesCacheUnchanged(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	svc := loadedService(t, store)

	_, err := svc.AddEntry(context.Background(), draft())
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(svc.Entries(NewestFirst)) != 0 {
		t.Fatal("failed write must never appear in the cache")
	}
	if svc.Revision() != 1 { // only the Load bump
		t.Fatalf("revision must not advance on failure, got %d", svc.Revision())
	}
}

func TestAddEntryRefusedWithoutSession(t *testing.T) {
	authErr := errors.New("no session")
	store := &fakeStore{}
	svc := NewService(store, fakeGate{err: authErr}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := svc.AddEntry(context.Background(), draft())
	if !errors.Is(err, authErr) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if store.insertCall != 0 {
		t.Fatal("unauthenticated calls must not reach the store")
	}
}

func TestSequentialAddsGetDistinctIncreasingIDs(t *testing.T) {
	svc := loadedService(t, &fakeStore{})

	first, err := svc.AddEntry(context.Background(), draft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := svc.AddEntry(context.Background(), draft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	svc := loadedService(t, &fakeStore{})
	if got := svc.Entries(NewestFirst); len(got) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(got))
	}
}

func TestLoadFailurePropagatesAndKeepsRefusing(t *testing.T) {
	store := &fakeStore{listErr: errors.New("corrupt file")}
	svc := NewService(store, nil, nil)

	if err := svc.Load(context.Background()); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage from load, got %v", err)
	}
	if _, err := svc.AddEntry(context.Background(), draft()); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("cache must stay invalid after failed load, got %v", err)
	}
}

func TestEntriesOrder(t *testing.T) {
	store := &fakeStore{}
	svc := loadedService(t, store)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	older := draft()
	older.Date = "2024-06-01T08:00:00Z"
	newer := draft()
	newer.Date = "2024-06-02T08:00:00Z"

	if _, err := svc.AddEntry(context.Background(), older); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddEntry(context.Background(), newer); err != nil {
		t.Fatalf("add: %v", err)
	}

	newest := svc.Entries(NewestFirst)
	if !newest[0].Date.After(newest[1].Date) {
		t.Fatalf("NewestFirst not honored: %v then %v", newest[0].Date, newest[1].Date)
	}
	oldest := svc.Entries(OldestFirst)
	if !oldest[0].Date.Before(oldest[1].Date) {
		t.Fatalf("OldestFirst not honored: %v then %v", oldest[0].Date, oldest[1].Date)
	}
}

func TestEntriesSameDateOrderedByID(t *testing.T) {
	store := &fakeStore{}
	svc := loadedService(t, store)

	same := draft()
	same.Date = "2024-06-01T08:00:00Z"
	for i := 0; i < 3; i++ {
		if _, err := svc.AddEntry(context.Background(), same); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got := svc.Entries(NewestFirst)
	if got[0].ID != 3 || got[1].ID != 2 || got[2].ID != 1 {
		t.Fatalf("expected id tiebreak 3,2,1; got %d,%d,%d", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestEntriesSnapshotIsACopy(t *testing.T) {
	svc := loadedService(t, &fakeStore{})
	if _, err := svc.AddEntry(context.Background(), draft()); err != nil {
		t.Fatalf("add: %v", err)
	}

	snapshot := svc.Entries(NewestFirst)
	snapshot[0].Description = "tampered"

	if svc.Entries(NewestFirst)[0].Description != "Coffee" {
		t.Fatal("mutating a snapshot must not affect the cache")
	}
}

func TestSubscribeNotifiesOnAdd(t *testing.T) {
	svc := loadedService(t, &fakeStore{})

	ch, cancel := svc.Subscribe()
	defer cancel()

	if _, err := svc.AddEntry(context.Background(), draft()); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a cache-change notification")
	}
}

func TestSubscribeCancelStopsNotifications(t *testing.T) {
	svc := loadedService(t, &fakeStore{})

	ch, cancel := svc.Subscribe()
	cancel()

	if _, err := svc.AddEntry(context.Background(), draft()); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case <-ch:
		t.Fatal("cancelled subscriber should not be notified")
	default:
	}
}

func TestRevisionAdvancesOnSuccessfulAdd(t *testing.T) {
	svc := loadedService(t, &fakeStore{})

	before := svc.Revision()
	if _, err := svc.AddEntry(context.Background(), draft()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if svc.Revision() <= before {
		t.Fatalf("revision should advance: %d -> %d", before, svc.Revision())
	}
}

func TestPublisherReceivesCommittedEntry(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(&fakeStore{}, nil, pub)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	saved, err := svc.AddEntry(context.Background(), draft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0].ID != saved.ID {
		t.Fatalf("expected the committed entry to be published, got %+v", pub.published)
	}
}
