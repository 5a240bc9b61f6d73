package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"go.uber.org/zap"
)

var ErrPromptMissing = errors.New("prompt is required")

// CheckRequest is one compliance pipeline invocation.
type CheckRequest struct {
	Prompt    string
	City      string
	SessionID string
	Overrides map[string]any
}

// ComplianceService runs the compliance pipeline in strict order:
// normalize, validate, filter, evaluate, geometry, summarize. Validation
// failure and an empty rule match are the only short circuits; both return
// well-formed terminal summaries, never errors.
type ComplianceService struct {
	ruleStore   domain.RuleStore
	caseStore   domain.CaseStore
	geometry    domain.GeometryGenerator
	defaultCity string
	logger      *zap.Logger
}

func NewComplianceService(rs domain.RuleStore, cs domain.CaseStore, geo domain.GeometryGenerator, defaultCity string, logger *zap.Logger) *ComplianceService {
	return &ComplianceService{
		ruleStore:   rs,
		caseStore:   cs,
		geometry:    geo,
		defaultCity: defaultCity,
		logger:      logger,
	}
}

// RunCheck executes the full pipeline for one prompt and returns the case
// summary. The returned error covers caller mistakes only (empty prompt);
// every pipeline outcome, including BLOCKED and ERROR, is a summary.
func (s *ComplianceService) RunCheck(ctx context.Context, req CheckRequest) (*domain.Summary, error) {
	if req.Prompt == "" {
		return nil, ErrPromptMissing
	}

	spec := NormalizeSpec(req.Prompt, req.City, s.defaultCity)
	ApplyOverrides(spec, req.Overrides)
	DeriveGeometryFields(spec)

	s.logger.Info("normalized spec",
		zap.String("case_id", spec.CaseID),
		zap.String("city", spec.City))

	ok, missing := ValidateSpec(spec)
	if !ok {
		s.logger.Warn("validation blocked",
			zap.String("case_id", spec.CaseID),
			zap.Strings("missing_fields", missing))
		summary := blockedSummary(spec, missing)
		s.persistCase(ctx, req, spec, summary)
		return summary, nil
	}

	rules, err := s.ruleStore.ListByCity(ctx, spec.City)
	if err != nil {
		// Degrade to an empty rule set rather than failing the case.
		s.logger.Error("rule store read failed",
			zap.String("city", spec.City),
			zap.Error(err))
		rules = nil
	}

	applicable := FilterApplicableRules(rules, spec)
	s.logger.Info("filtered rules",
		zap.String("case_id", spec.CaseID),
		zap.Int("total", len(rules)),
		zap.Int("applicable", len(applicable)))

	if len(applicable) == 0 {
		summary := noRulesSummary(spec)
		s.persistCase(ctx, req, spec, summary)
		return summary, nil
	}

	evaluations := s.evaluateAll(applicable, spec)

	geometryPath := ""
	if s.geometry != nil {
		geometryPath, err = s.geometry.Generate(ctx, spec)
		if err != nil {
			s.logger.Warn("geometry generation failed",
				zap.String("case_id", spec.CaseID),
				zap.Error(err))
			geometryPath = ""
		}
	}

	summary := Summarize(spec, evaluations, geometryPath)
	s.logger.Info("pipeline complete",
		zap.String("case_id", spec.CaseID),
		zap.String("status", string(summary.Status)),
		zap.Int("compliant_checks", summary.Stats.CompliantChecks),
		zap.Int("non_compliant_checks", summary.Stats.NonCompliantChecks))

	s.persistCase(ctx, req, spec, summary)
	return summary, nil
}

func (s *ComplianceService) evaluateAll(rules []domain.Rule, spec *domain.Specification) []domain.Evaluation {
	evaluations := make([]domain.Evaluation, 0, len(rules))
	for _, rule := range rules {
		eval, skips := EvaluateRule(rule, spec)
		for _, skip := range skips {
			s.logger.Warn("check skipped",
				zap.String("case_id", spec.CaseID),
				zap.String("clause_no", skip.ClauseNo),
				zap.String("field", skip.Field),
				zap.String("reason", skip.Reason))
		}
		if len(eval.Checks) == 0 {
			s.logger.Debug("rule has no evaluable limits",
				zap.String("clause_no", rule.ClauseNo))
		}
		evaluations = append(evaluations, eval)
	}
	return evaluations
}

func (s *ComplianceService) persistCase(ctx context.Context, req CheckRequest, spec *domain.Specification, summary *domain.Summary) {
	if s.caseStore == nil {
		return
	}
	record := &domain.CaseRecord{
		CaseID:    spec.CaseID,
		SessionID: req.SessionID,
		Prompt:    req.Prompt,
		City:      spec.City,
		Status:    summary.Status,
		Summary:   summary,
	}
	if err := s.caseStore.Create(ctx, record); err != nil {
		s.logger.Warn("failed to persist case record",
			zap.String("case_id", spec.CaseID),
			zap.Error(err))
	}
}

func blockedSummary(spec *domain.Specification, missing []string) *domain.Summary {
	return &domain.Summary{
		CaseID:        spec.CaseID,
		City:          spec.City,
		Status:        domain.StatusBlocked,
		Reason:        "Missing mandatory planning parameters required by DCPR",
		MissingFields: missing,
		Evaluations:   []domain.Evaluation{},
		Timestamp:     time.Now().UTC(),
	}
}

func noRulesSummary(spec *domain.Specification) *domain.Summary {
	return &domain.Summary{
		CaseID:      spec.CaseID,
		City:        spec.City,
		Status:      domain.StatusError,
		Reason:      fmt.Sprintf("No applicable DCPR rules matched for %s. Check rule schema or inputs.", spec.City),
		Evaluations: []domain.Evaluation{},
		Timestamp:   time.Now().UTC(),
	}
}
