package service

import (
	"testing"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func heightRule(city, clause string) domain.Rule {
	return domain.Rule{
		ClauseNo:       clause,
		City:           city,
		Category:       "height",
		RequiredFields: []string{domain.FieldHeightM},
		Limits:         map[string]domain.Limit{domain.FieldHeightM: {Max: fptr(24)}},
	}
}

func TestFilterApplicableRules_CityMismatchExcluded(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rules := []domain.Rule{heightRule("Pune", "C-1"), heightRule("Mumbai", "C-2")}
	got := FilterApplicableRules(rules, spec)

	if len(got) != 1 || got[0].ClauseNo != "C-2" {
		t.Fatalf("expected only C-2, got %v", got)
	}
}

func TestFilterApplicableRules_CityCaseInsensitive(t *testing.T) {
	spec := completeSpec()
	spec.City = "mumbai"
	spec.HeightM = fptr(20)

	got := FilterApplicableRules([]domain.Rule{heightRule("MUMBAI", "C-1")}, spec)
	if len(got) != 1 {
		t.Fatalf("expected case-insensitive city match, got %v", got)
	}
}

func TestFilterApplicableRules_EmptyRuleCityIsWildcard(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	got := FilterApplicableRules([]domain.Rule{heightRule("", "C-1")}, spec)
	if len(got) != 1 {
		t.Fatalf("expected rule without city to apply everywhere, got %v", got)
	}
}

func TestFilterApplicableRules_DuplicateClauseKeepsFirst(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	first := heightRule("Mumbai", "C-1")
	second := heightRule("Mumbai", "C-1")
	second.Category = "duplicate"

	got := FilterApplicableRules([]domain.Rule{first, second}, spec)
	if len(got) != 1 {
		t.Fatalf("expected one rule after dedup, got %d", len(got))
	}
	if got[0].Category != "height" {
		t.Fatalf("expected first occurrence kept, got category %s", got[0].Category)
	}
}

func TestFilterApplicableRules_NoRequiredFieldsNeverApplies(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rule := heightRule("Mumbai", "C-1")
	rule.RequiredFields = nil

	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 0 {
		t.Fatalf("expected unqualified rule excluded, got %v", got)
	}
}

func TestFilterApplicableRules_MissingRequiredFieldExcluded(t *testing.T) {
	spec := completeSpec() // no height set

	if got := FilterApplicableRules([]domain.Rule{heightRule("Mumbai", "C-1")}, spec); len(got) != 0 {
		t.Fatalf("expected rule excluded without height, got %v", got)
	}
}

func TestFilterApplicableRules_NumericConditions(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rule := heightRule("Mumbai", "C-1")
	rule.Conditions = map[string]domain.Condition{
		domain.FieldAbuttingRoadWidthM: {Max: fptr(15)},
		domain.FieldPlotAreaSqM:        {Min: fptr(300)},
	}

	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 1 {
		t.Fatalf("expected conditions to hold (road=12, area=450), got %v", got)
	}

	rule.Conditions[domain.FieldAbuttingRoadWidthM] = domain.Condition{Max: fptr(10)}
	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 0 {
		t.Fatalf("expected road width 12 to fail max 10, got %v", got)
	}
}

func TestFilterApplicableRules_MembershipCondition(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rule := heightRule("Mumbai", "C-1")
	rule.Conditions = map[string]domain.Condition{
		domain.FieldLandUseZone: {In: []any{"r1", "R2"}},
	}

	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 1 {
		t.Fatalf("expected zone R1 to match membership case-insensitively, got %v", got)
	}

	rule.Conditions[domain.FieldLandUseZone] = domain.Condition{In: []any{"C1", "C2"}}
	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 0 {
		t.Fatalf("expected zone R1 to fail membership, got %v", got)
	}
}

func TestFilterApplicableRules_EqualsCondition(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rule := heightRule("Mumbai", "C-1")
	rule.Conditions = map[string]domain.Condition{
		domain.FieldBuildingUse: {Equals: "Residential"},
	}

	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 1 {
		t.Fatalf("expected equals to match case-insensitively, got %v", got)
	}
}

func TestFilterApplicableRules_NumericEqualsAcrossTypes(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rule := heightRule("Mumbai", "C-1")
	// JSON decoding yields float64, rule documents may carry ints
	rule.Conditions = map[string]domain.Condition{
		domain.FieldPlotAreaSqM: {Equals: 450},
	}

	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 1 {
		t.Fatalf("expected numeric equality 450 == 450.0, got %v", got)
	}
}

func TestFilterApplicableRules_ConditionOnAbsentField(t *testing.T) {
	spec := completeSpec()
	spec.HeightM = fptr(20)

	rule := heightRule("Mumbai", "C-1")
	rule.Conditions = map[string]domain.Condition{
		domain.FieldIsCoreArea: {Equals: true},
	}

	if got := FilterApplicableRules([]domain.Rule{rule}, spec); len(got) != 0 {
		t.Fatalf("expected condition on absent field to exclude rule, got %v", got)
	}
}
