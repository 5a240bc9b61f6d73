package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

type RuleStore struct {
	db *pgxpool.Pool
}

func NewRuleStore(db *pgxpool.Pool) *RuleStore {
	return &RuleStore{db: db}
}

// Upsert normalizes a source rule document and stores both the raw document
// and its canonical form, keyed by (city, clause_no).
func (s *RuleStore) Upsert(ctx context.Context, city string, doc map[string]any) (*domain.Rule, error) {
	rule, err := NormalizeRuleDoc(city, doc)
	if err != nil {
		return nil, err
	}

	rawDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO rules (city, clause_no, category, rule_text, doc)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (city, clause_no)
		 DO UPDATE SET category = EXCLUDED.category,
		               rule_text = EXCLUDED.rule_text,
		               doc = EXCLUDED.doc,
		               updated_at = now()
		 RETURNING created_at, updated_at`,
		rule.City, rule.ClauseNo, rule.Category, rule.RuleText, rawDoc,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// ListByCity returns the city's rules in insertion order, already
// normalized. Documents that fail normalization are skipped by the caller's
// choice: they cannot be stored in the first place, so reads never see one.
func (s *RuleStore) ListByCity(ctx context.Context, city string) ([]domain.Rule, error) {
	rows, err := s.db.Query(ctx,
		`SELECT city, doc, created_at, updated_at
		 FROM rules WHERE lower(city) = lower($1)
		 ORDER BY created_at, clause_no`,
		city,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.Rule
	for rows.Next() {
		var (
			ruleCity             string
			rawDoc               []byte
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&ruleCity, &rawDoc, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := json.Unmarshal(rawDoc, &doc); err != nil {
			return nil, err
		}

		rule, err := NormalizeRuleDoc(ruleCity, doc)
		if err != nil {
			return nil, err
		}
		rule.CreatedAt = createdAt
		rule.UpdatedAt = updatedAt
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}
