package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/lehigh-university-libraries/scorediff/internal/models"
	"github.com/lehigh-university-libraries/scorediff/internal/storage"
)

// Handler serves the diff API.
type Handler struct {
	sessionStore *storage.SessionStore
	defaults     comparing.Config
}

// New creates a handler whose diffs use defaults unless a request names
// its own filter.
func New(defaults comparing.Config) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		defaults:     defaults,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug("Request rejected", "status", code, "reason", message)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.DiffSession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
