// Package storage is the persistent store: a local SQLite database
// holding the transactions and user tables. It owns entry IDs and the
// canonical on-disk representation (amounts in integer cents, dates as
// RFC 3339 UTC strings).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrSchema marks an irrecoverable schema initialization failure.
	ErrSchema = errors.New("schema initialization failed")

	// ErrNotFound is returned when a row lookup matches nothing.
	ErrNotFound = errors.New("not found")
)

// User is a row of the user table, used only by the session gate.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath
// and runs migrations. SQLite serializes writes internally, so a single
// *sql.DB is the whole single-writer discipline.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertEntry appends a validated entry and returns it with the
// generated id. IDs are assigned by AUTOINCREMENT and never reused.
func (r *SQLiteRepository) InsertEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, category, description, date, type)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Amount.Cents, e.Category, e.Description,
		e.Date.UTC().Format(time.RFC3339), string(e.Type))
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("read generated id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"type", e.Type,
		"category", e.Category,
		"amount_cents", e.Amount.Cents)

	return e, nil
}

// ListEntries returns every entry in store order (id ascending).
// Presentation order is the caller's concern.
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, category, description, date, type
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []core.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// GetEntry retrieves a single entry by id.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount, category, description, date, type
		 FROM transactions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return e, err
}

// MonthTotals sums the month's income and expenses directly in SQL.
// RFC 3339 UTC strings compare lexicographically, so the half-open
// window is a plain string range.
func (r *SQLiteRepository) MonthTotals(ctx context.Context, year, month int) (income, expenses core.Money, err error) {
	start, end := core.MonthWindow(year, month)
	row := r.db.QueryRowContext(ctx,
		`SELECT
		   COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		 FROM transactions WHERE date >= ? AND date < ?`,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err = row.Scan(&income.Cents, &expenses.Cents); err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("month totals: %w", err)
	}
	return income, expenses, nil
}

// CreateUser stores a new user with an already-hashed password.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user (email, password) VALUES (?, ?)`, email, passwordHash)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("read generated id: %w", err)
	}
	return User{ID: id, Email: email, PasswordHash: passwordHash}, nil
}

// UserByEmail looks up a user for login.
func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password FROM user WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("user by email: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e       core.Entry
		dateStr string
		typeStr string
	)
	if err := row.Scan(&e.ID, &e.Amount.Cents, &e.Category, &e.Description, &dateStr, &typeStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Entry{}, err
		}
		return core.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	e.Date = date.UTC()
	e.Type = core.EntryType(typeStr)
	return e, nil
}
