package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/store"
)

type RuleHandler struct {
	store domain.RuleStore
}

func NewRuleHandler(store domain.RuleStore) *RuleHandler {
	return &RuleHandler{store: store}
}

type upsertRuleRequest struct {
	City string         `json:"city"`
	Rule map[string]any `json:"rule"`
}

// Upsert accepts a source rule document as-is; normalization to the
// canonical shape happens at the store boundary.
func (h *RuleHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.City == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}
	if len(req.Rule) == 0 {
		writeError(w, http.StatusBadRequest, "rule is required")
		return
	}

	rule, err := h.store.Upsert(r.Context(), req.City, req.Rule)
	if err != nil {
		if errors.Is(err, store.ErrInvalidRuleDoc) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save rule")
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

func (h *RuleHandler) ListByCity(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}

	rules, err := h.store.ListByCity(r.Context(), city)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules")
		return
	}
	if rules == nil {
		rules = []domain.Rule{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"city":  city,
		"rules": rules,
		"count": len(rules),
	})
}
