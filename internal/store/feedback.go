package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

type FeedbackStore struct {
	db *pgxpool.Pool
}

func NewFeedbackStore(db *pgxpool.Pool) *FeedbackStore {
	return &FeedbackStore{db: db}
}

func (s *FeedbackStore) Create(ctx context.Context, f *domain.Feedback) error {
	params, err := json.Marshal(f.Parameters)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(f.Metadata)
	if err != nil {
		return err
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO feedback_entries (case_id, signal, city, parameters, metadata)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		f.CaseID, f.Signal, f.City, params, meta,
	).Scan(&f.ID, &f.CreatedAt)
}

func (s *FeedbackStore) ListByCaseID(ctx context.Context, caseID string) ([]domain.Feedback, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, case_id, signal, city, parameters, metadata, created_at
		 FROM feedback_entries WHERE case_id = $1
		 ORDER BY created_at DESC`,
		caseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var params, meta []byte
		if err := rows.Scan(&f.ID, &f.CaseID, &f.Signal, &f.City, &params, &meta, &f.CreatedAt); err != nil {
			return nil, err
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, &f.Parameters); err != nil {
				return nil, err
			}
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &f.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}
