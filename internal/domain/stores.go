package domain

import "context"

// RuleStore owns the city rule sets. Source rule documents arrive as
// loosely-shaped maps (clause IDs under clause_no or id, scalar or object
// limits); the store normalizes them into canonical Rules on the way in,
// so nothing downstream branches on alternate key names.
type RuleStore interface {
	Upsert(ctx context.Context, city string, doc map[string]any) (*Rule, error)
	ListByCity(ctx context.Context, city string) ([]Rule, error)
}

// CaseStore persists pipeline runs keyed by case ID.
type CaseStore interface {
	Create(ctx context.Context, c *CaseRecord) error
	GetByCaseID(ctx context.Context, caseID string) (*CaseRecord, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]CaseRecord, error)
}

// FeedbackStore persists signed feedback entries.
type FeedbackStore interface {
	Create(ctx context.Context, f *Feedback) error
	ListByCaseID(ctx context.Context, caseID string) ([]Feedback, error)
}

// PolicySnapshotStore saves and loads the suggestion policy snapshot.
// Load reports a sentinel not-found error when no snapshot has been
// saved yet.
type PolicySnapshotStore interface {
	Save(ctx context.Context, snap *PolicySnapshot) error
	Load(ctx context.Context) (*PolicySnapshot, error)
}

// GeometryGenerator produces a best-effort geometry artifact for a
// specification. It returns an empty path, without error, when the
// specification lacks usable dimensions.
type GeometryGenerator interface {
	Generate(ctx context.Context, spec *Specification) (string, error)
}
