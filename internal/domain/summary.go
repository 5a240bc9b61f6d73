package domain

import (
	"time"

	"github.com/google/uuid"
)

type CaseStatus string

const (
	StatusCompliant    CaseStatus = "COMPLIANT"
	StatusNonCompliant CaseStatus = "NON_COMPLIANT"
	StatusIncomplete   CaseStatus = "INCOMPLETE"
	StatusBlocked      CaseStatus = "BLOCKED"
	StatusError        CaseStatus = "ERROR"
)

// SummaryStats aggregates the per-check outcomes across all evaluations.
type SummaryStats struct {
	TotalRulesEvaluated int     `json:"total_rules_evaluated"`
	CompliantChecks     int     `json:"compliant_checks"`
	NonCompliantChecks  int     `json:"non_compliant_checks"`
	ComplianceRate      float64 `json:"compliance_rate"`
}

// GeometryRef records whether a geometry artifact was produced for the case.
type GeometryRef struct {
	Generated bool   `json:"generated"`
	Path      string `json:"path,omitempty"`
}

// Summary is the case-level verdict. It carries the same case ID as the
// Specification it was produced from, and embeds the full evaluation list
// for traceability.
type Summary struct {
	CaseID        string         `json:"case_id"`
	City          string         `json:"city"`
	Status        CaseStatus     `json:"status"`
	Reason        string         `json:"reason,omitempty"`
	MissingFields []string       `json:"missing_fields,omitempty"`
	Stats         *SummaryStats  `json:"summary,omitempty"`
	Parameters    *Specification `json:"building_parameters,omitempty"`
	Evaluations   []Evaluation   `json:"evaluations"`
	Geometry      *GeometryRef   `json:"geometry,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// CaseRecord is one persisted pipeline run, keyed by case ID.
type CaseRecord struct {
	ID        uuid.UUID  `json:"id"`
	CaseID    string     `json:"case_id"`
	SessionID string     `json:"session_id,omitempty"`
	Prompt    string     `json:"prompt"`
	City      string     `json:"city"`
	Status    CaseStatus `json:"status"`
	Summary   *Summary   `json:"summary"`
	CreatedAt time.Time  `json:"created_at"`
}
