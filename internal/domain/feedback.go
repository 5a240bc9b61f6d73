package domain

import (
	"time"

	"github.com/google/uuid"
)

// Feedback signal values. A positive signal reinforces the suggestion
// policy; a negative one only suppresses future exploration for the state.
const (
	SignalUp   = 1
	SignalDown = -1
)

func ValidSignal(s int) bool {
	return s == SignalUp || s == SignalDown
}

// Feedback is one signed user judgment on a case, optionally carrying the
// building parameters the judgment applies to so the suggestion policy can
// learn from them.
type Feedback struct {
	ID         uuid.UUID          `json:"id"`
	CaseID     string             `json:"case_id"`
	Signal     int                `json:"signal"`
	City       string             `json:"city,omitempty"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}
