package store

import (
	"errors"
	"fmt"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/spf13/cast"
)

// ErrInvalidRuleDoc wraps every normalization failure so callers can map
// malformed documents to a client error.
var ErrInvalidRuleDoc = errors.New("invalid rule document")

var ErrRuleClauseMissing = fmt.Errorf("%w: no clause_no or id", ErrInvalidRuleDoc)

// NormalizeRuleDoc converts a loosely-shaped source rule document into a
// canonical Rule. Source documents use inconsistent key names (clause_no
// vs id) and inconsistent value shapes (limits as bare scalars or as
// {min,max} objects, conditions as scalars, ranges, or lists); this is the
// single place those variants are resolved.
func NormalizeRuleDoc(city string, doc map[string]any) (*domain.Rule, error) {
	clause := cast.ToString(doc["clause_no"])
	if clause == "" {
		clause = cast.ToString(doc["id"])
	}
	if clause == "" {
		return nil, ErrRuleClauseMissing
	}

	rule := &domain.Rule{
		ClauseNo: clause,
		City:     city,
		Category: cast.ToString(doc["category"]),
		RuleText: cast.ToString(doc["rule_text"]),
	}
	if rc := cast.ToString(doc["city"]); rc != "" {
		rule.City = rc
	}

	if raw, ok := doc["required_fields"]; ok && raw != nil {
		fields, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: required_fields: %v", ErrInvalidRuleDoc, clause, err)
		}
		rule.RequiredFields = fields
	}

	if raw, ok := doc["conditions"]; ok && raw != nil {
		conds, err := normalizeConditions(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: %v", ErrInvalidRuleDoc, clause, err)
		}
		rule.Conditions = conds
	}

	if raw, ok := doc["limits"]; ok && raw != nil {
		limits, err := normalizeLimits(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: %v", ErrInvalidRuleDoc, clause, err)
		}
		rule.Limits = limits
	}

	return rule, nil
}

func normalizeConditions(raw any) (map[string]domain.Condition, error) {
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("conditions: %w", err)
	}

	conds := make(map[string]domain.Condition, len(m))
	for field, v := range m {
		switch tv := v.(type) {
		case []any:
			conds[field] = domain.Condition{In: tv}
		case map[string]any:
			var c domain.Condition
			if mn, ok := tv["min"]; ok && mn != nil {
				f, err := cast.ToFloat64E(mn)
				if err != nil {
					return nil, fmt.Errorf("conditions.%s.min: %w", field, err)
				}
				c.Min = &f
			}
			if mx, ok := tv["max"]; ok && mx != nil {
				f, err := cast.ToFloat64E(mx)
				if err != nil {
					return nil, fmt.Errorf("conditions.%s.max: %w", field, err)
				}
				c.Max = &f
			}
			if eq, ok := tv["equals"]; ok && eq != nil {
				c.Equals = eq
			}
			conds[field] = c
		default:
			conds[field] = domain.Condition{Equals: v}
		}
	}
	return conds, nil
}

func normalizeLimits(raw any) (map[string]domain.Limit, error) {
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("limits: %w", err)
	}

	limits := make(map[string]domain.Limit, len(m))
	for field, v := range m {
		switch tv := v.(type) {
		case map[string]any:
			var l domain.Limit
			if mn, ok := tv["min"]; ok && mn != nil {
				f, err := cast.ToFloat64E(mn)
				if err != nil {
					return nil, fmt.Errorf("limits.%s.min: %w", field, err)
				}
				l.Min = &f
			}
			if mx, ok := tv["max"]; ok && mx != nil {
				f, err := cast.ToFloat64E(mx)
				if err != nil {
					return nil, fmt.Errorf("limits.%s.max: %w", field, err)
				}
				l.Max = &f
			}
			limits[field] = l
		default:
			// A bare scalar limit means an implicit maximum.
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, fmt.Errorf("limits.%s: %w", field, err)
			}
			limits[field] = domain.Limit{Max: &f}
		}
	}
	return limits, nil
}
