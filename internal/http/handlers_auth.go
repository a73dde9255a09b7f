package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tally/internal/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	id, err := s.gate.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrBadEmail) || errors.Is(err, session.ErrWeakPassword) {
			writeError(w, r, err)
			return
		}
		// Almost certainly a duplicate email; don't leak which.
		slog.WarnContext(r.Context(), "Registration rejected", "error", err)
		writeJSON(w, http.StatusConflict, errorResponse{Error: "account cannot be created"})
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", id.UserID, "email", id.Email)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user_id": id.UserID,
		"email":   id.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	token, err := s.gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
