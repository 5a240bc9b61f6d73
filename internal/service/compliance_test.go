package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/store"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// mockRuleStore implements domain.RuleStore for testing.
type mockRuleStore struct {
	rules    []domain.Rule
	err      error
	lastCity string
}

func (m *mockRuleStore) Upsert(ctx context.Context, city string, doc map[string]any) (*domain.Rule, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRuleStore) ListByCity(ctx context.Context, city string) ([]domain.Rule, error) {
	m.lastCity = city
	if m.err != nil {
		return nil, m.err
	}
	return m.rules, nil
}

// mockCaseStore implements domain.CaseStore for testing.
type mockCaseStore struct {
	records   []domain.CaseRecord
	createErr error
}

func (m *mockCaseStore) Create(ctx context.Context, c *domain.CaseRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, *c)
	return nil
}

func (m *mockCaseStore) GetByCaseID(ctx context.Context, caseID string) (*domain.CaseRecord, error) {
	for i := range m.records {
		if m.records[i].CaseID == caseID {
			return &m.records[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockCaseStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.CaseRecord, error) {
	var result []domain.CaseRecord
	for _, r := range m.records {
		if r.SessionID == sessionID {
			result = append(result, r)
		}
	}
	return result, nil
}

// stubGeometry implements domain.GeometryGenerator for testing.
type stubGeometry struct {
	path string
	err  error
}

func (g *stubGeometry) Generate(ctx context.Context, spec *domain.Specification) (string, error) {
	return g.path, g.err
}

func mumbaiRules() []domain.Rule {
	return []domain.Rule{
		{
			ClauseNo:       "DCPR-30.1",
			City:           "Mumbai",
			Category:       "height",
			RequiredFields: []string{domain.FieldHeightM},
			Limits:         map[string]domain.Limit{domain.FieldHeightM: {Max: fptr(24)}},
		},
		{
			ClauseNo:       "DCPR-33.2",
			City:           "Mumbai",
			Category:       "fsi",
			RequiredFields: []string{domain.FieldFSI},
			Limits:         map[string]domain.Limit{domain.FieldFSI: {Min: fptr(0.5), Max: fptr(2.5)}},
		},
	}
}

func validOverrides() map[string]any {
	return map[string]any{
		"land_use_zone":         "R1",
		"plot_area_sq_m":        450,
		"abutting_road_width_m": 12,
		"building_use":          "residential",
	}
}

func TestRunCheck_EmptyPrompt(t *testing.T) {
	svc := NewComplianceService(&mockRuleStore{}, &mockCaseStore{}, nil, "Mumbai", testLogger())

	_, err := svc.RunCheck(context.Background(), CheckRequest{})
	if !errors.Is(err, ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestRunCheck_ValidationBlocks(t *testing.T) {
	rules := &mockRuleStore{rules: mumbaiRules()}
	cases := &mockCaseStore{}
	svc := NewComplianceService(rules, cases, nil, "Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt: "30m tall residential tower in Mumbai",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Status != domain.StatusBlocked {
		t.Fatalf("expected BLOCKED, got %s", summary.Status)
	}
	if len(summary.MissingFields) == 0 {
		t.Fatal("expected missing fields listed")
	}
	if summary.Reason == "" {
		t.Fatal("expected a reason on the blocked summary")
	}
	if rules.lastCity != "" {
		t.Fatal("expected no rule lookup after validation failure")
	}
	// Even blocked cases are persisted
	if len(cases.records) != 1 || cases.records[0].Status != domain.StatusBlocked {
		t.Fatalf("expected blocked case persisted, got %v", cases.records)
	}
}

func TestRunCheck_NoApplicableRules(t *testing.T) {
	// Rules for the wrong city only
	pune := mumbaiRules()
	for i := range pune {
		pune[i].City = "Pune"
	}
	svc := NewComplianceService(&mockRuleStore{rules: pune}, &mockCaseStore{}, nil, "Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt:    "30m tall residential tower in Mumbai",
		Overrides: validOverrides(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Status != domain.StatusError {
		t.Fatalf("expected ERROR, got %s", summary.Status)
	}
	if summary.Reason == "" {
		t.Fatal("expected a reason naming the city")
	}
}

func TestRunCheck_RuleStoreFailureDegrades(t *testing.T) {
	svc := NewComplianceService(&mockRuleStore{err: errors.New("connection refused")}, &mockCaseStore{}, nil, "Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt:    "30m tall residential tower in Mumbai",
		Overrides: validOverrides(),
	})
	if err != nil {
		t.Fatalf("expected store failure to degrade, got %v", err)
	}
	if summary.Status != domain.StatusError {
		t.Fatalf("expected ERROR with empty rule set, got %s", summary.Status)
	}
}

func TestRunCheck_NonCompliant(t *testing.T) {
	cases := &mockCaseStore{}
	svc := NewComplianceService(&mockRuleStore{rules: mumbaiRules()}, cases, nil, "Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt:    "30m tall residential tower in Mumbai with FSI 2.0",
		SessionID: "sess-1",
		Overrides: validOverrides(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Status != domain.StatusNonCompliant {
		t.Fatalf("expected NON_COMPLIANT (30 > 24), got %s", summary.Status)
	}
	if summary.Stats.CompliantChecks != 1 || summary.Stats.NonCompliantChecks != 1 {
		t.Fatalf("unexpected stats: %+v", summary.Stats)
	}
	if len(summary.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(summary.Evaluations))
	}

	if len(cases.records) != 1 {
		t.Fatalf("expected 1 persisted case, got %d", len(cases.records))
	}
	record := cases.records[0]
	if record.CaseID != summary.CaseID || record.SessionID != "sess-1" {
		t.Fatalf("unexpected case record: %+v", record)
	}
}

func TestRunCheck_Compliant(t *testing.T) {
	svc := NewComplianceService(&mockRuleStore{rules: mumbaiRules()}, &mockCaseStore{}, nil, "Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt:    "20m tall residential tower in Mumbai with FSI 2.0",
		Overrides: validOverrides(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Status != domain.StatusCompliant {
		t.Fatalf("expected COMPLIANT, got %s", summary.Status)
	}
	if summary.Parameters == nil || summary.Parameters.HeightM == nil || *summary.Parameters.HeightM != 20 {
		t.Fatalf("expected normalized parameters embedded, got %+v", summary.Parameters)
	}
}

func TestRunCheck_GeometryFailureIsBestEffort(t *testing.T) {
	svc := NewComplianceService(
		&mockRuleStore{rules: mumbaiRules()},
		&mockCaseStore{},
		&stubGeometry{err: errors.New("disk full")},
		"Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt:    "20m tall residential tower in Mumbai with FSI 2.0",
		Overrides: validOverrides(),
	})
	if err != nil {
		t.Fatalf("expected geometry failure to degrade, got %v", err)
	}
	if summary.Geometry.Generated {
		t.Fatal("expected geometry not generated on failure")
	}
	if summary.Status != domain.StatusCompliant {
		t.Fatalf("expected verdict unaffected by geometry, got %s", summary.Status)
	}
}

func TestRunCheck_CasePersistFailureIsBestEffort(t *testing.T) {
	svc := NewComplianceService(
		&mockRuleStore{rules: mumbaiRules()},
		&mockCaseStore{createErr: errors.New("connection refused")},
		nil, "Mumbai", testLogger())

	summary, err := svc.RunCheck(context.Background(), CheckRequest{
		Prompt:    "20m tall residential tower in Mumbai with FSI 2.0",
		Overrides: validOverrides(),
	})
	if err != nil {
		t.Fatalf("expected persist failure to degrade, got %v", err)
	}
	if summary.Status != domain.StatusCompliant {
		t.Fatalf("expected COMPLIANT, got %s", summary.Status)
	}
}
