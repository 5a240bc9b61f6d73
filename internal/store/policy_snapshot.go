package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
)

const policySnapshotName = "suggestion_policy"

// PolicySnapshotStore keeps a single-row snapshot of the suggestion policy.
type PolicySnapshotStore struct {
	db *pgxpool.Pool
}

func NewPolicySnapshotStore(db *pgxpool.Pool) *PolicySnapshotStore {
	return &PolicySnapshotStore{db: db}
}

func (s *PolicySnapshotStore) Save(ctx context.Context, snap *domain.PolicySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO policy_snapshots (name, snapshot)
		 VALUES ($1, $2)
		 ON CONFLICT (name)
		 DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		policySnapshotName, data,
	)
	return err
}

func (s *PolicySnapshotStore) Load(ctx context.Context) (*domain.PolicySnapshot, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT snapshot FROM policy_snapshots WHERE name = $1`,
		policySnapshotName,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	snap := &domain.PolicySnapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
