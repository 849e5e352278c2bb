package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleListDiffs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.sessionStore.List())
}

func (h *Handler) HandleGetDiff(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) HandleDeleteDiff(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(chi.URLParam(r, "id")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
