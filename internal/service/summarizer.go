package service

import (
	"math"
	"time"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

// Summarize folds the evaluation list into the case-level verdict, linked
// to the specification by case ID. COMPLIANT requires zero failing checks
// and at least one passing check; any failing check makes the case
// NON_COMPLIANT; anything else (no judged checks at all) is INCOMPLETE.
func Summarize(spec *domain.Specification, evaluations []domain.Evaluation, geometryPath string) *domain.Summary {
	passed, failed := 0, 0
	for _, eval := range evaluations {
		for _, check := range eval.Checks {
			if check.OK {
				passed++
			} else {
				failed++
			}
		}
	}

	status := domain.StatusIncomplete
	switch {
	case failed == 0 && passed > 0:
		status = domain.StatusCompliant
	case failed > 0:
		status = domain.StatusNonCompliant
	}

	rate := 0.0
	if passed+failed > 0 {
		rate = math.Round(float64(passed)/float64(passed+failed)*1000) / 10
	}

	if evaluations == nil {
		evaluations = []domain.Evaluation{}
	}

	return &domain.Summary{
		CaseID: spec.CaseID,
		City:   spec.City,
		Status: status,
		Stats: &domain.SummaryStats{
			TotalRulesEvaluated: len(evaluations),
			CompliantChecks:     passed,
			NonCompliantChecks:  failed,
			ComplianceRate:      rate,
		},
		Parameters:  spec,
		Evaluations: evaluations,
		Geometry: &domain.GeometryRef{
			Generated: geometryPath != "",
			Path:      geometryPath,
		},
		Timestamp: time.Now().UTC(),
	}
}
