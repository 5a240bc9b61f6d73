package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

func TestEvaluateRule_MaxBound(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(30)

	rule := heightRule("Mumbai", "C-1") // max height 24

	eval, skips := EvaluateRule(rule, spec)
	if len(skips) != 0 {
		t.Fatalf("expected no skips, got %v", skips)
	}

	check, ok := eval.Checks[domain.FieldHeightM]
	if !ok {
		t.Fatal("expected a height check")
	}
	if check.OK {
		t.Fatal("expected 30 > max 24 to fail")
	}
	if check.Subject != 30 {
		t.Fatalf("expected subject 30, got %v", check.Subject)
	}
	if check.RuleMax == nil || *check.RuleMax != 24 {
		t.Fatalf("expected rule max 24, got %v", check.RuleMax)
	}
	if check.RuleMin != nil {
		t.Fatalf("expected no rule min, got %v", *check.RuleMin)
	}
}

func TestEvaluateRule_MinBound(t *testing.T) {
	spec := completeSpec()
	spec.SetbackM = fptr(2)

	rule := domain.Rule{
		ClauseNo: "C-1",
		Limits:   map[string]domain.Limit{domain.FieldSetbackM: {Min: fptr(3)}},
	}

	eval, _ := EvaluateRule(rule, spec)
	check := eval.Checks[domain.FieldSetbackM]
	if check.OK {
		t.Fatal("expected 2 < min 3 to fail")
	}
	if check.RuleMin == nil || *check.RuleMin != 3 {
		t.Fatalf("expected rule min 3, got %v", check.RuleMin)
	}
}

func TestEvaluateRule_WithinBothBounds(t *testing.T) {
	spec := completeSpec()
	spec.FSI = fptr(1.5)

	rule := domain.Rule{
		ClauseNo: "C-1",
		Limits:   map[string]domain.Limit{domain.FieldFSI: {Min: fptr(0.5), Max: fptr(2.5)}},
	}

	eval, _ := EvaluateRule(rule, spec)
	check := eval.Checks[domain.FieldFSI]
	if !check.OK {
		t.Fatal("expected 1.5 within [0.5, 2.5] to pass")
	}
}

func TestEvaluateRule_BoundaryInclusive(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(24)

	eval, _ := EvaluateRule(heightRule("Mumbai", "C-1"), spec)
	if !eval.Checks[domain.FieldHeightM].OK {
		t.Fatal("expected height exactly at max to pass")
	}
}

func TestEvaluateRule_AbsentSubjectSkipped(t *testing.T) {
	spec := completeSpec() // no height

	eval, skips := EvaluateRule(heightRule("Mumbai", "C-1"), spec)
	if len(eval.Checks) != 0 {
		t.Fatalf("expected no checks for absent subject, got %v", eval.Checks)
	}
	if len(skips) != 1 || skips[0].Field != domain.FieldHeightM || skips[0].Reason != "subject absent" {
		t.Fatalf("expected absent-subject skip, got %v", skips)
	}
}

func TestEvaluateRule_NonNumericSubjectSkipped(t *testing.T) {
	spec := completeSpec() // building_use = "residential"

	rule := domain.Rule{
		ClauseNo: "C-1",
		Limits:   map[string]domain.Limit{domain.FieldBuildingUse: {Max: fptr(10)}},
	}

	eval, skips := EvaluateRule(rule, spec)
	if len(eval.Checks) != 0 {
		t.Fatalf("expected no checks for non-numeric subject, got %v", eval.Checks)
	}
	if len(skips) != 1 || skips[0].Reason != "subject not numeric" {
		t.Fatalf("expected non-numeric skip, got %v", skips)
	}
}

func TestEvaluateRule_NoLimitsYieldsEmptyNonNilChecks(t *testing.T) {
	eval, skips := EvaluateRule(domain.Rule{ClauseNo: "C-1"}, completeSpec())
	if eval.Checks == nil {
		t.Fatal("expected non-nil check map")
	}
	if len(eval.Checks) != 0 || len(skips) != 0 {
		t.Fatalf("expected empty checks and skips, got %v / %v", eval.Checks, skips)
	}
}

func TestCheck_AbsentBoundsOmittedFromJSON(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	eval, _ := EvaluateRule(heightRule("Mumbai", "C-1"), spec)

	data, err := json.Marshal(eval.Checks[domain.FieldHeightM])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "rule_min") {
		t.Fatalf("expected absent min bound omitted, got %s", data)
	}
	if !strings.Contains(string(data), "rule_max") {
		t.Fatalf("expected present max bound serialized, got %s", data)
	}
}
