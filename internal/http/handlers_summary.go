package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
)

type categoryTotalJSON struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type summaryResponse struct {
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	TotalBalance string              `json:"total_balance"`
	MonthBalance string              `json:"month_balance"`
	MonthIncome  string              `json:"month_income"`
	MonthExpense string              `json:"month_expenses"`
	ByCategory   []categoryTotalJSON `json:"by_category"`
}

// handleSummary serves the dashboard aggregates for one month plus the
// all-time balance. Results are memoized until the ledger changes.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be between 1 and 12"})
		return
	}

	key := strconv.Itoa(year) + "-" + strconv.Itoa(month)
	overview, hit := s.summaryCache.Get(key)
	entries := s.svc.Entries(ledger.OldestFirst)
	if !hit {
		overview = core.MonthOverview(entries, year, month)
		s.summaryCache.Set(key, overview)
		slog.DebugContext(r.Context(), "Summary computed",
			"year", year, "month", month, "entries", len(entries))
	}

	resp := summaryResponse{
		Year:         overview.Year,
		Month:        overview.Month,
		TotalBalance: core.Balance(entries).Decimal(),
		MonthBalance: overview.Balance.Decimal(),
		MonthIncome:  overview.Income.Decimal(),
		MonthExpense: overview.Expenses.Decimal(),
		ByCategory:   make([]categoryTotalJSON, 0, len(overview.ByCategory)),
	}
	for _, ct := range overview.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotalJSON{
			Category: ct.Name,
			Amount:   ct.Amount.Decimal(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
