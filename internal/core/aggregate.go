package core

import "time"

// CategoryTotal is an amount aggregated under one category name.
type CategoryTotal struct {
	Name   string
	Amount Money
}

// Overview is a compact summary for one year+month window.
type Overview struct {
	Year       int
	Month      int // 1-12
	Balance    Money
	Income     Money
	Expenses   Money
	ByCategory []CategoryTotal
}

// Balance returns total income minus total expenses in exact cents.
// The result is independent of entry order.
func Balance(entries []Entry) Money {
	var total Money
	for _, e := range entries {
		switch e.Type {
		case Income:
			total = total.Add(e.Amount)
		case Expense:
			total = total.Sub(e.Amount)
		}
	}
	return total
}

// TotalsByCategory sums entries of the given type per category. Only
// categories present in the input appear in the result; since amounts
// are strictly positive, zero-sum categories cannot occur.
func TotalsByCategory(entries []Entry, typ EntryType) map[string]Money {
	totals := make(map[string]Money)
	for _, e := range entries {
		if e.Type != typ {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// InWindow filters entries whose date falls in the half-open interval
// [start, end).
func InWindow(entries []Entry, start, end time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.Date.Before(start) && e.Date.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// WindowBalance applies Balance to the entries inside [start, end).
func WindowBalance(entries []Entry, start, end time.Time) Money {
	return Balance(InWindow(entries, start, end))
}

// MonthWindow returns the [start, end) interval covering the given
// calendar month in UTC.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// MonthOverview computes the summary for one calendar month. Expense
// categories are listed largest first so the dashboard can render them
// without re-sorting.
func MonthOverview(entries []Entry, year, month int) Overview {
	start, end := MonthWindow(year, month)
	windowed := InWindow(entries, start, end)

	ov := Overview{Year: year, Month: month}
	for _, e := range windowed {
		switch e.Type {
		case Income:
			ov.Income = ov.Income.Add(e.Amount)
		case Expense:
			ov.Expenses = ov.Expenses.Add(e.Amount)
		}
	}
	ov.Balance = ov.Income.Sub(ov.Expenses)

	byCat := TotalsByCategory(windowed, Expense)
	for name, amount := range byCat {
		ov.ByCategory = append(ov.ByCategory, CategoryTotal{Name: name, Amount: amount})
	}
	sortTotals(ov.ByCategory)
	return ov
}

func sortTotals(totals []CategoryTotal) {
	// Largest amount first, name as tiebreak for stable output.
	for i := 1; i < len(totals); i++ {
		for j := i; j > 0; j-- {
			a, b := totals[j-1], totals[j]
			if a.Amount.Cents > b.Amount.Cents ||
				(a.Amount.Cents == b.Amount.Cents && a.Name <= b.Name) {
				break
			}
			totals[j-1], totals[j] = b, a
		}
	}
}

// Weights of the three entry-form fields in the completion score.
const (
	amountWeight      = 30
	descriptionWeight = 35
	categoryWeight    = 35
)

// FormCompletionScore is the 0-100 progress indicator shown while the
// entry form is being filled in. Purely cosmetic, no persistence.
func FormCompletionScore(amountPresent, descriptionPresent, categoryPresent bool) int {
	score := 0
	if amountPresent {
		score += amountWeight
	}
	if descriptionPresent {
		score += descriptionWeight
	}
	if categoryPresent {
		score += categoryWeight
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
