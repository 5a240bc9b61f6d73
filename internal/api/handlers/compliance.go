package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nirmaan-ai/nirmaan/internal/service"
)

type ComplianceHandler struct {
	svc *service.ComplianceService
}

func NewComplianceHandler(svc *service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{svc: svc}
}

type checkRequest struct {
	Prompt    string         `json:"prompt"`
	City      string         `json:"city,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Overrides map[string]any `json:"overrides,omitempty"`
}

// Check runs the compliance pipeline for one prompt. The response is always
// a well-formed summary; BLOCKED and ERROR outcomes are 200s, not failures.
func (h *ComplianceHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.svc.RunCheck(r.Context(), service.CheckRequest{
		Prompt:    req.Prompt,
		City:      req.City,
		SessionID: req.SessionID,
		Overrides: req.Overrides,
	})
	if err != nil {
		if errors.Is(err, service.ErrPromptMissing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "compliance check failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
