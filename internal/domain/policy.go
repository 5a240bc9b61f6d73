package domain

import "time"

// PolicySuccess is one positively-rewarded parameter set retained in a
// state's history.
type PolicySuccess struct {
	Parameters map[string]float64 `json:"parameters"`
	RecordedAt time.Time          `json:"recorded_at"`
}

// PolicyState is the learned estimate for one (city, building type) key.
type PolicyState struct {
	Estimates  map[string]float64 `json:"estimates"`
	VisitCount int                `json:"visit_count"`
	Successes  []PolicySuccess    `json:"successes,omitempty"`
}

// PolicySnapshot is the explicit, portable serialization schema for the
// whole suggestion policy. It is stored as a single versioned blob and
// reloaded at process start.
type PolicySnapshot struct {
	Version int                     `json:"version"`
	Alpha   float64                 `json:"alpha"`
	States  map[string]*PolicyState `json:"states"`
}
