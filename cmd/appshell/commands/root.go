// Package commands implements the appshell CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/appshell/internal/config"
)

var (
	// Version information injected at build time.
	Version = "dev"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "appshell [url]",
	Short: "appshell - terminal host for the meeting app",
	Long: `appshell waits for its local state store, restores persisted
settings and opens the given meeting URL, the configured default, or the
last server used.

Use "appshell [command] --help" for more information about a command.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/appshell/config.toml)")

	rootCmd.Flags().String("default-url", "", "URL to open when none is given")
	rootCmd.Flags().String("props-file", "", "YAML props file to watch for launch props")
	rootCmd.Flags().Bool("inspect", false, "log every dispatched action")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// loadConfig honours --config, then APPSHELL_* env and the config file.
func loadConfig() (config.Config, error) {
	if cfgFile != "" {
		if err := os.Setenv("APPSHELL_CONFIG", cfgFile); err != nil {
			return config.Config{}, fmt.Errorf("set config path: %w", err)
		}
	}
	return config.Load()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("appshell %s\n", Version)
	},
}
