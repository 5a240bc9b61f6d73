package service

import (
	"time"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/spf13/cast"
)

// FieldSkip records why one (field, limit) pair produced no check. Skips
// are reported alongside the evaluation instead of being smuggled out as
// exceptions or null-valued checks.
type FieldSkip struct {
	ClauseNo string
	Field    string
	Reason   string
}

// EvaluateRule checks one applicable rule against the specification. For
// each field in the rule's limit map the subject value is coerced to a
// float and tested against every present bound. Fields whose subject is
// absent or non-numeric are skipped, never synthesized into a failing
// check. The returned evaluation always has a non-nil check map; a rule
// with no evaluable limits yields an empty one.
func EvaluateRule(rule domain.Rule, spec *domain.Specification) (domain.Evaluation, []FieldSkip) {
	eval := domain.Evaluation{
		ClauseNo:    rule.ClauseNo,
		Checks:      make(map[string]domain.Check, len(rule.Limits)),
		EvaluatedAt: time.Now().UTC(),
	}

	var skips []FieldSkip
	for field, limit := range rule.Limits {
		val, ok := spec.Field(field)
		if !ok {
			skips = append(skips, FieldSkip{ClauseNo: rule.ClauseNo, Field: field, Reason: "subject absent"})
			continue
		}

		subject, err := cast.ToFloat64E(val)
		if err != nil {
			skips = append(skips, FieldSkip{ClauseNo: rule.ClauseNo, Field: field, Reason: "subject not numeric"})
			continue
		}

		check := domain.Check{Subject: subject, OK: true}
		if limit.Min != nil {
			mn := *limit.Min
			check.RuleMin = &mn
			if subject < mn {
				check.OK = false
			}
		}
		if limit.Max != nil {
			mx := *limit.Max
			check.RuleMax = &mx
			if subject > mx {
				check.OK = false
			}
		}
		eval.Checks[field] = check
	}

	return eval, skips
}
