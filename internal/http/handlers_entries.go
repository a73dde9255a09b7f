package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"tally/internal/core"
	"tally/internal/ledger"
)

type draftRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Date        string `json:"date,omitempty"`
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateEntry(w, r)
	case http.MethodGet:
		s.handleListEntries(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	entry, err := s.svc.AddEntry(r.Context(), core.Draft{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Type:        req.Type,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Entry created",
		"entry_id", entry.ID,
		"entry_type", entry.Type,
		"category", entry.Category,
		"amount_cents", entry.Amount.Cents)

	writeJSON(w, http.StatusCreated, toEntryJSON(entry))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	order := ledger.NewestFirst
	if strings.EqualFold(r.URL.Query().Get("order"), "oldest") {
		order = ledger.OldestFirst
	}

	entries := s.svc.Entries(order)
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"revision": s.svc.Revision(),
		"entries":  out,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": core.Categories})
}

// handleProgress scores the partially filled entry form. Pure UI
// feedback; nothing is validated or persisted here.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	q := r.URL.Query()
	score := core.FormCompletionScore(
		strings.TrimSpace(q.Get("amount")) != "",
		strings.TrimSpace(q.Get("description")) != "",
		strings.TrimSpace(q.Get("category")) != "",
	)
	writeJSON(w, http.StatusOK, map[string]int{"score": score})
}
