package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/store"
)

const defaultSessionLimit = 10

type CaseHandler struct {
	store domain.CaseStore
}

func NewCaseHandler(store domain.CaseStore) *CaseHandler {
	return &CaseHandler{store: store}
}

func (h *CaseHandler) GetByCaseID(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		writeError(w, http.StatusBadRequest, "case id is required")
		return
	}

	record, err := h.store.GetByCaseID(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "case not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get case")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ListBySession returns the most recent case logs for a session, newest
// first, for cumulative context before the next run.
func (h *CaseHandler) ListBySession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	limit := defaultSessionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	records, err := h.store.ListBySession(r.Context(), sessionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cases")
		return
	}
	if records == nil {
		records = []domain.CaseRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"entries":    records,
		"count":      len(records),
	})
}
