package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/appshell/internal/database"
	"github.com/jask/appshell/internal/service"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget persisted settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		if err := database.Ready(cmd.Context(), db); err != nil {
			return err
		}

		svc := &service.MaintenanceService{DB: db}
		if resetKey != "" {
			found, err := svc.Forget(cmd.Context(), resetKey)
			if err != nil {
				return err
			}
			if !found {
				cmd.Printf("nothing persisted under %s\n", resetKey)
				return nil
			}
			cmd.Printf("forgot %s\n", resetKey)
			return nil
		}

		removed, err := svc.Reset(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("removed %d persisted slices\n", removed)
		return nil
	},
}

var resetKey string

func init() {
	resetCmd.Flags().StringVar(&resetKey, "key", "", "forget only this persisted slice (e.g. features/settings)")
}
