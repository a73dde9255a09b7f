package core

import (
	"testing"
	"time"
)

func entry(typ EntryType, cents int64, category string, date time.Time) Entry {
	return Entry{
		Amount:      Money{Cents: cents},
		Category:    category,
		Description: "test",
		Type:        typ,
		Date:        date,
	}
}

func TestBalance(t *testing.T) {
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		entry(Income, 500000, "Salary", day),
		entry(Expense, 1234, "Food", day),
		entry(Expense, 8000, "Transport", day),
	}
	if got := Balance(entries); got.Cents != 490766 {
		t.Fatalf("expected 490766, got %d", got.Cents)
	}
	if got := Balance(nil); got.Cents != 0 {
		t.Fatalf("empty set should balance to zero, got %d", got.Cents)
	}
}

func TestBalanceOrderIndependent(t *testing.T) {
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := entry(Income, 100, "Salary", day)
	b := entry(Expense, 30, "Food", day)
	c := entry(Expense, 25, "Bills", day)

	perms := [][]Entry{
		{a, b, c}, {a, c, b}, {b, a, c},
		{b, c, a}, {c, a, b}, {c, b, a},
	}
	for i, p := range perms {
		if got := Balance(p); got.Cents != 45 {
			t.Fatalf("permutation %d: expected 45, got %d", i, got.Cents)
		}
	}
}

func TestBalanceCanGoNegative(t *testing.T) {
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		entry(Income, 100, "Salary", day),
		entry(Expense, 250, "Bills", day),
	}
	if got := Balance(entries); got.Cents != -150 {
		t.Fatalf("expected -150, got %d", got.Cents)
	}
}

func TestTotalsByCategory(t *testing.T) {
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		entry(Expense, 1000, "Food", day),
		entry(Expense, 500, "Food", day),
		entry(Expense, 300, "Transport", day),
		entry(Income, 9999, "Salary", day),
	}

	totals := TotalsByCategory(entries, Expense)
	if len(totals) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(totals))
	}
	if totals["Food"].Cents != 1500 {
		t.Fatalf("Food: expected 1500, got %d", totals["Food"].Cents)
	}
	if totals["Transport"].Cents != 300 {
		t.Fatalf("Transport: expected 300, got %d", totals["Transport"].Cents)
	}
	if _, ok := totals["Salary"]; ok {
		t.Fatal("income must not leak into expense totals")
	}

	income := TotalsByCategory(entries, Income)
	if len(income) != 1 || income["Salary"].Cents != 9999 {
		t.Fatalf("unexpected income totals: %v", income)
	}
}

func TestWindowBalanceHalfOpen(t *testing.T) {
	start, end := MonthWindow(2024, 6)
	entries := []Entry{
		entry(Expense, 100, "Food", start.Add(-time.Second)), // May, excluded
		entry(Expense, 200, "Food", start),                   // inclusive start
		entry(Expense, 400, "Food", end.Add(-time.Second)),   // last instant of June
		entry(Expense, 800, "Food", end),                     // July, excluded
	}
	if got := WindowBalance(entries, start, end); got.Cents != -600 {
		t.Fatalf("expected -600, got %d", got.Cents)
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2024, 12)
	if start.Month() != time.December || start.Day() != 1 {
		t.Fatalf("bad start: %v", start)
	}
	if end.Year() != 2025 || end.Month() != time.January {
		t.Fatalf("window should roll over the year: %v", end)
	}
}

func TestMonthOverview(t *testing.T) {
	june := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	entries := []Entry{
		entry(Income, 300000, "Salary", june),
		entry(Expense, 2000, "Food", june),
		entry(Expense, 7000, "Bills", june),
		entry(Expense, 100, "Food", may), // outside window
	}

	ov := MonthOverview(entries, 2024, 6)
	if ov.Income.Cents != 300000 || ov.Expenses.Cents != 9000 {
		t.Fatalf("unexpected totals: income=%d expenses=%d", ov.Income.Cents, ov.Expenses.Cents)
	}
	if ov.Balance.Cents != 291000 {
		t.Fatalf("expected balance 291000, got %d", ov.Balance.Cents)
	}
	if len(ov.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(ov.ByCategory))
	}
	// Largest first.
	if ov.ByCategory[0].Name != "Bills" || ov.ByCategory[1].Name != "Food" {
		t.Fatalf("categories not ordered by amount: %+v", ov.ByCategory)
	}
}

func TestFormCompletionScore(t *testing.T) {
	cases := []struct {
		amount, desc, cat bool
		want              int
	}{
		{false, false, false, 0},
		{true, false, false, 30},
		{false, true, false, 35},
		{false, false, true, 35},
		{true, true, false, 65},
		{true, false, true, 65},
		{false, true, true, 70},
		{true, true, true, 100},
	}
	for _, tc := range cases {
		got := FormCompletionScore(tc.amount, tc.desc, tc.cat)
		if got != tc.want {
			t.Fatalf("(%v,%v,%v): expected %d, got %d", tc.amount, tc.desc, tc.cat, tc.want, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("score %d outside [0,100]", got)
		}
	}
}

func TestFormCompletionScoreMonotonic(t *testing.T) {
	// Turning any single field on must never lower the score.
	for _, amount := range []bool{false, true} {
		for _, desc := range []bool{false, true} {
			for _, cat := range []bool{false, true} {
				base := FormCompletionScore(amount, desc, cat)
				if !amount && FormCompletionScore(true, desc, cat) < base {
					t.Fatal("score decreased when amount became present")
				}
				if !desc && FormCompletionScore(amount, true, cat) < base {
					t.Fatal("score decreased when description became present")
				}
				if !cat && FormCompletionScore(amount, desc, true) < base {
					t.Fatal("score decreased when category became present")
				}
			}
		}
	}
}
