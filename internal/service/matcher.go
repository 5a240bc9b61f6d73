package service

import (
	"strings"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/spf13/cast"
)

// FilterApplicableRules reduces a city's rule set to the rules applicable
// to the specification, preserving input order. Per rule, in order:
//
//  1. the rule's city must match the spec's (case-insensitive; a rule with
//     no city applies anywhere)
//  2. a clause number already accepted in this pass is dropped silently
//  3. a rule declaring no required fields never applies
//  4. every required field must be present on the spec
//  5. every condition predicate must hold
//
// An empty result is a valid outcome; the orchestrator reports it, the
// matcher does not.
func FilterApplicableRules(rules []domain.Rule, spec *domain.Specification) []domain.Rule {
	var applicable []domain.Rule
	seen := make(map[string]bool)

	for _, rule := range rules {
		if rule.City != "" && !strings.EqualFold(rule.City, spec.City) {
			continue
		}
		if seen[rule.ClauseNo] {
			continue
		}
		if len(rule.RequiredFields) == 0 {
			continue
		}
		if !hasRequiredFields(rule.RequiredFields, spec) {
			continue
		}
		if !conditionsMatch(rule.Conditions, spec) {
			continue
		}

		applicable = append(applicable, rule)
		seen[rule.ClauseNo] = true
	}
	return applicable
}

func hasRequiredFields(fields []string, spec *domain.Specification) bool {
	for _, f := range fields {
		if _, ok := spec.Field(f); !ok {
			return false
		}
	}
	return true
}

func conditionsMatch(conditions map[string]domain.Condition, spec *domain.Specification) bool {
	for field, cond := range conditions {
		val, ok := spec.Field(field)
		if !ok {
			return false
		}
		if !conditionHolds(cond, val) {
			return false
		}
	}
	return true
}

func conditionHolds(cond domain.Condition, val any) bool {
	if len(cond.In) > 0 {
		for _, member := range cond.In {
			if valuesEqual(val, member) {
				return true
			}
		}
		return false
	}

	if cond.Min != nil || cond.Max != nil {
		num, err := cast.ToFloat64E(val)
		if err != nil {
			return false
		}
		if cond.Min != nil && num < *cond.Min {
			return false
		}
		if cond.Max != nil && num > *cond.Max {
			return false
		}
	}

	if cond.Equals != nil && !valuesEqual(val, cond.Equals) {
		return false
	}
	return true
}

// valuesEqual compares loosely-typed condition values: numbers compare
// numerically (a JSON 3 and a spec 3.0 are equal), everything else by
// case-insensitive string form.
func valuesEqual(a, b any) bool {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr == nil && berr == nil {
		return af == bf
	}
	return strings.EqualFold(cast.ToString(a), cast.ToString(b))
}
