// Package memory is a volatile Store used by the memory backend and by
// tests. It mirrors the SQLite repository's contract, including id
// assignment, but nothing survives the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tally/internal/core"
	"tally/internal/storage"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	entries []core.Entry
	users   map[string]storage.User
	nextUID int64
}

func New() *Store {
	return &Store{users: make(map[string]storage.User)}
}

// InsertEntry assigns the next id and keeps the entry in memory.
func (s *Store) InsertEntry(_ context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Amount.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.entries = append(s.entries, e)
	return e, nil
}

// ListEntries returns all entries in insertion order.
func (s *Store) ListEntries(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Store) GetEntry(_ context.Context, id int64) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Entry{}, fmt.Errorf("entry %d: %w", id, storage.ErrNotFound)
}

func (s *Store) MonthTotals(_ context.Context, year, month int) (income, expenses core.Money, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, end := core.MonthWindow(year, month)
	for _, e := range core.InWindow(s.entries, start, end) {
		switch e.Type {
		case core.Income:
			income = income.Add(e.Amount)
		case core.Expense:
			expenses = expenses.Add(e.Amount)
		}
	}
	return income, expenses, nil
}

func (s *Store) CreateUser(_ context.Context, email, passwordHash string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return storage.User{}, fmt.Errorf("user %s already exists", email)
	}
	s.nextUID++
	u := storage.User{ID: s.nextUID, Email: email, PasswordHash: passwordHash}
	s.users[email] = u
	return u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return storage.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) Close() error { return nil }
