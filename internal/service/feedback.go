package service

import (
	"context"
	"errors"
	"math"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/store"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

var (
	ErrFeedbackCaseIDMissing = errors.New("case_id is required")
	ErrFeedbackInvalidSignal = errors.New("signal must be 1 or -1")
)

// FeedbackResult is what a recorded feedback produced: the reward passed to
// the policy and the confidence score over the case's persisted history.
type FeedbackResult struct {
	Reward          int     `json:"reward"`
	ConfidenceScore float64 `json:"confidence_score"`
	HistorySize     int     `json:"history_size"`
}

type FeedbackService struct {
	feedbackStore domain.FeedbackStore
	caseStore     domain.CaseStore
	policy        *PolicyService
	logger        *zap.Logger
}

func NewFeedbackService(fs domain.FeedbackStore, cs domain.CaseStore, policy *PolicyService, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackStore: fs,
		caseStore:     cs,
		policy:        policy,
		logger:        logger,
	}
}

// Submit validates and persists one signed feedback entry, feeds it to the
// suggestion policy, and computes the case's confidence score. Policy and
// confidence failures degrade (zero confidence, no estimate change) rather
// than failing the submission.
func (s *FeedbackService) Submit(ctx context.Context, f *domain.Feedback) (*FeedbackResult, error) {
	if f.CaseID == "" {
		return nil, ErrFeedbackCaseIDMissing
	}
	if !domain.ValidSignal(f.Signal) {
		return nil, ErrFeedbackInvalidSignal
	}

	s.resolveFromCase(ctx, f)

	if err := s.feedbackStore.Create(ctx, f); err != nil {
		return nil, err
	}

	if s.policy != nil && len(f.Parameters) > 0 && f.City != "" {
		buildingType := cast.ToString(f.Metadata["building_type"])
		s.policy.Update(ctx, f.City, f.Parameters, f.Signal, buildingType)
	}

	confidence, historySize := s.confidenceScore(ctx, f.CaseID)

	s.logger.Info("feedback recorded",
		zap.String("case_id", f.CaseID),
		zap.Int("signal", f.Signal),
		zap.Float64("confidence_score", confidence))

	return &FeedbackResult{
		Reward:          f.Signal,
		ConfidenceScore: confidence,
		HistorySize:     historySize,
	}, nil
}

// History returns the case's feedback entries, newest first.
func (s *FeedbackService) History(ctx context.Context, caseID string) ([]domain.Feedback, error) {
	entries, err := s.feedbackStore.ListByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.Feedback{}
	}
	return entries, nil
}

// resolveFromCase fills in city and parameters from the stored case record
// when the caller omitted them, so feedback submitted with just a case ID
// still reaches the policy.
func (s *FeedbackService) resolveFromCase(ctx context.Context, f *domain.Feedback) {
	if s.caseStore == nil || (f.City != "" && len(f.Parameters) > 0) {
		return
	}

	record, err := s.caseStore.GetByCaseID(ctx, f.CaseID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("case lookup failed", zap.String("case_id", f.CaseID), zap.Error(err))
		}
		return
	}

	if f.City == "" {
		f.City = record.City
	}
	if len(f.Parameters) == 0 && record.Summary != nil && record.Summary.Parameters != nil {
		f.Parameters = specParameters(record.Summary.Parameters)
	}
}

// specParameters extracts the policy-relevant numeric parameters present on
// a specification.
func specParameters(spec *domain.Specification) map[string]float64 {
	params := make(map[string]float64)
	if spec.HeightM != nil {
		params[domain.FieldHeightM] = *spec.HeightM
	}
	if spec.FSI != nil {
		params[domain.FieldFSI] = *spec.FSI
	}
	if spec.SetbackM != nil {
		params[domain.FieldSetbackM] = *spec.SetbackM
	}
	return params
}

// confidenceScore averages the signed history for a case into a score in
// [-1, 1], rounded to two decimals. Store failures degrade to 0.0.
func (s *FeedbackService) confidenceScore(ctx context.Context, caseID string) (float64, int) {
	entries, err := s.feedbackStore.ListByCaseID(ctx, caseID)
	if err != nil {
		s.logger.Warn("feedback history read failed", zap.String("case_id", caseID), zap.Error(err))
		return 0.0, 0
	}
	if len(entries) == 0 {
		return 0.0, 0
	}

	total := 0
	for _, e := range entries {
		total += e.Signal
	}
	score := math.Round(float64(total)/float64(len(entries))*100) / 100
	return score, len(entries)
}
