package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// MaxDescriptionLen is the character limit applied after trimming.
const MaxDescriptionLen = 100

type (
	// EntryType partitions entries into income and expense.
	EntryType string

	// Entry is one recorded transaction. Entries are immutable once
	// created; the ID is assigned by the store and never reused.
	Entry struct {
		ID          int64
		Amount      Money
		Category    string
		Description string
		Type        EntryType
		Date        time.Time
	}

	// Draft is unvalidated user input for a new entry. Amount and Date
	// arrive as strings from the boundary (decimal and RFC 3339).
	Draft struct {
		Amount      string
		Category    string
		Description string
		Type        string
		Date        string
	}
)

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrEmptyDescription   = errors.New("description is required")
	ErrDescriptionTooLong = errors.New("description exceeds 100 characters")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidType        = errors.New("type must be income or expense")
	ErrInvalidDate        = errors.New("date must be a valid RFC 3339 timestamp")
)

var validationErrs = []error{
	ErrInvalidAmount,
	ErrEmptyDescription,
	ErrDescriptionTooLong,
	ErrUnknownCategory,
	ErrInvalidType,
	ErrInvalidDate,
}

// IsValidationError reports whether err stems from draft validation,
// as opposed to a storage or auth failure.
func IsValidationError(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// Categories is the fixed allowed set, shared by validation and the
// category picker endpoint.
var Categories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Bills",
	"Health",
	"Salary",
	"Other",
}

// ValidCategory reports whether name is one of the allowed categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Validate checks the draft and produces the entry that would be stored
// (without an ID). Rules run in order and stop at the first failure:
// amount, description, category. The date defaults to now when absent
// and is normalized to UTC.
func (d Draft) Validate(now time.Time) (Entry, error) {
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return Entry{}, err
	}

	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return Entry{}, ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return Entry{}, ErrDescriptionTooLong
	}

	if !ValidCategory(d.Category) {
		return Entry{}, ErrUnknownCategory
	}

	typ := EntryType(d.Type)
	if typ != Income && typ != Expense {
		return Entry{}, ErrInvalidType
	}

	date := now
	if strings.TrimSpace(d.Date) != "" {
		date, err = time.Parse(time.RFC3339, strings.TrimSpace(d.Date))
		if err != nil {
			return Entry{}, ErrInvalidDate
		}
	}

	return Entry{
		Amount:      amount,
		Category:    d.Category,
		Description: desc,
		Type:        typ,
		Date:        date.UTC(),
	}, nil
}
