package domain

import "time"

// Check records one field comparison against a rule's bounds. Unset bounds
// are nil pointers and drop out of the serialized form entirely: the wire
// representation never carries a null.
type Check struct {
	RuleMin *float64 `json:"rule_min,omitempty"`
	RuleMax *float64 `json:"rule_max,omitempty"`
	Subject float64  `json:"subject"`
	OK      bool     `json:"ok"`
}

// Evaluation is the outcome of checking one rule against one specification.
// A rule whose limits yielded no evaluable fields has an empty (non-nil)
// check map; fields whose inputs were insufficient are simply omitted.
type Evaluation struct {
	ClauseNo    string           `json:"clause_no"`
	Checks      map[string]Check `json:"checks"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}
