package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/service"
)

type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type submitFeedbackRequest struct {
	CaseID     string             `json:"case_id"`
	Signal     int                `json:"signal"`
	City       string             `json:"city,omitempty"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}

type submitFeedbackResponse struct {
	Success         bool    `json:"success"`
	Reward          int     `json:"reward"`
	ConfidenceScore float64 `json:"confidence_score"`
	HistorySize     int     `json:"history_size"`
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback := &domain.Feedback{
		CaseID:     req.CaseID,
		Signal:     req.Signal,
		City:       req.City,
		Parameters: req.Parameters,
		Metadata:   req.Metadata,
	}

	result, err := h.svc.Submit(r.Context(), feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackCaseIDMissing),
			errors.Is(err, service.ErrFeedbackInvalidSignal):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record feedback")
		}
		return
	}

	writeJSON(w, http.StatusCreated, submitFeedbackResponse{
		Success:         true,
		Reward:          result.Reward,
		ConfidenceScore: result.ConfidenceScore,
		HistorySize:     result.HistorySize,
	})
}

func (h *FeedbackHandler) History(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		writeError(w, http.StatusBadRequest, "case id is required")
		return
	}

	entries, err := h.svc.History(r.Context(), caseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get feedback history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"case_id":  caseID,
		"feedback": entries,
		"count":    len(entries),
	})
}
