package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/session"
)

// entryJSON is the wire shape of an entry. Amounts are two-decimal
// strings, dates RFC 3339.
type entryJSON struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Date        string `json:"date"`
}

func toEntryJSON(e core.Entry) entryJSON {
	return entryJSON{
		ID:          e.ID,
		Amount:      e.Amount.Decimal(),
		Category:    e.Category,
		Description: e.Description,
		Type:        string(e.Type),
		Date:        e.Date.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy onto HTTP statuses. Validation
// failures surface their specific rule; storage failures stay generic.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrBadEmail), errors.Is(err, session.ErrWeakPassword):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrNotLoaded):
		slog.ErrorContext(r.Context(), "Ledger not ready", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "ledger is not ready yet"})
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error, please retry"})
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
