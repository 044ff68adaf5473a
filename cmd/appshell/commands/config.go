package commands

import (
	"github.com/spf13/cobra"

	"github.com/jask/appshell/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cmd.Printf("database.path         = %s\n", cfg.Database.Path)
		cmd.Printf("app.url               = %s\n", cfg.App.URL)
		cmd.Printf("app.default_url       = %s\n", cfg.App.DefaultURL)
		cmd.Printf("app.location          = %s\n", cfg.App.Location)
		cmd.Printf("app.server_domain     = %s\n", cfg.App.ServerDomain)
		cmd.Printf("storage.ready_timeout = %s\n", cfg.Storage.ReadyTimeout)
		cmd.Printf("log.level             = %s\n", cfg.Log.Level)
		cmd.Printf("log.format            = %s\n", cfg.Log.Format)
		cmd.Printf("log.path              = %s\n", cfg.Log.Path)
		cmd.Printf("dev.inspect           = %t\n", cfg.Dev.Inspect)
		cmd.Printf("host.props_file       = %s\n", cfg.Host.PropsFile)
		cmd.Printf("metrics.addr          = %s\n", cfg.Metrics.Addr)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		cmd.Println("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
