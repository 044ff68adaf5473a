package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadyMigratesSharedHandle(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "ready.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Ready(context.Background(), db))
	// a second call is a no-op and must leave the handle open
	require.NoError(t, Ready(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM persisted_state`).Scan(&n))
	require.Zero(t, n)
}

func TestReadyRejectsNilAndCancelled(t *testing.T) {
	t.Parallel()

	require.Error(t, Ready(context.Background(), nil))

	db, err := Open(filepath.Join(t.TempDir(), "cancel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, Ready(ctx, db))
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "tx.db")
	require.NoError(t, RunMigrations(dbPath))
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO persisted_state(key, value, revision) VALUES ('k', '1', 'r')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM persisted_state`).Scan(&n))
	require.Zero(t, n)
}
