package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/appshell/internal/database"
	"github.com/jask/appshell/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes persisted state. It keeps the schema intact so the next
// launch starts from defaults.
func (s *MaintenanceService) Reset(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM persisted_state")
		if err != nil {
			return fmt.Errorf("reset persisted_state: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return removed, nil
}

// Forget removes one persisted slice. It reports whether the slice existed.
func (s *MaintenanceService) Forget(ctx context.Context, key string) (bool, error) {
	if s.DB == nil {
		return false, fmt.Errorf("maintenance: db not configured")
	}
	repo := repository.NewSnapshotRepo(s.DB)
	snap, err := repo.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", key, err)
	}
	if snap == nil {
		return false, nil
	}
	if err := repo.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("forget %s: %w", key, err)
	}
	return true, nil
}
