package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

type CaseStore struct {
	db *pgxpool.Pool
}

func NewCaseStore(db *pgxpool.Pool) *CaseStore {
	return &CaseStore{db: db}
}

func (s *CaseStore) Create(ctx context.Context, c *domain.CaseRecord) error {
	summary, err := json.Marshal(c.Summary)
	if err != nil {
		return err
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO cases (case_id, session_id, prompt, city, status, summary)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		c.CaseID, c.SessionID, c.Prompt, c.City, c.Status, summary,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *CaseStore) GetByCaseID(ctx context.Context, caseID string) (*domain.CaseRecord, error) {
	c := &domain.CaseRecord{}
	var summary []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, case_id, session_id, prompt, city, status, summary, created_at
		 FROM cases WHERE case_id = $1`,
		caseID,
	).Scan(&c.ID, &c.CaseID, &c.SessionID, &c.Prompt, &c.City, &c.Status, &summary, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(summary, &c.Summary); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CaseStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.CaseRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, case_id, session_id, prompt, city, status, summary, created_at
		 FROM cases WHERE session_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CaseRecord
	for rows.Next() {
		var c domain.CaseRecord
		var summary []byte
		if err := rows.Scan(&c.ID, &c.CaseID, &c.SessionID, &c.Prompt, &c.City, &c.Status, &summary, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(summary, &c.Summary); err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}
