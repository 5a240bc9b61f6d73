package domain

import "time"

// Condition gates a rule's applicability on one specification field.
// One of the three shapes is populated: Equals for scalar equality,
// Min/Max for numeric ranges, In for set membership.
type Condition struct {
	Equals any      `json:"equals,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	In     []any    `json:"in,omitempty"`
}

// Limit is a numeric bound on one specification field. A bare scalar limit
// in a source document is normalized to a Max-only Limit at the rule store
// boundary.
type Limit struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Rule is one clause of a city's building code, normalized from the
// heterogeneous source documents into a single canonical shape. Rules are
// immutable once loaded; the matcher references them without copying.
type Rule struct {
	ClauseNo       string               `json:"clause_no"`
	City           string               `json:"city"`
	Category       string               `json:"category,omitempty"`
	RuleText       string               `json:"rule_text,omitempty"`
	RequiredFields []string             `json:"required_fields"`
	Conditions     map[string]Condition `json:"conditions,omitempty"`
	Limits         map[string]Limit     `json:"limits,omitempty"`
	CreatedAt      time.Time            `json:"created_at,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at,omitempty"`
}
