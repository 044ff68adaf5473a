package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// SnapshotRepo stores persisted state slices keyed by slice name.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Upsert writes value under key and returns the new revision id.
func (r *SnapshotRepo) Upsert(ctx context.Context, key string, value []byte) (string, error) {
	rev := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO persisted_state(key, value, revision, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 revision=excluded.revision,
	 updated_at=CURRENT_TIMESTAMP;
	`, key, string(value), rev)
	if err != nil {
		return "", err
	}
	return rev, nil
}

func (r *SnapshotRepo) Get(ctx context.Context, key string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, revision, updated_at FROM persisted_state WHERE key = ?`, key)
	var s Snapshot
	var value string
	if err := row.Scan(&s.Key, &value, &s.Revision, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Value = []byte(value)
	return &s, nil
}

func (r *SnapshotRepo) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, revision, updated_at FROM persisted_state ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var value string
		if err := rows.Scan(&s.Key, &value, &s.Revision, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Value = []byte(value)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SnapshotRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM persisted_state WHERE key = ?`, key)
	return err
}
