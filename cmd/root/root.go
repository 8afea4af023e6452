// Package root contains the root command for the application
package root

import (
	"github.com/spf13/cobra"

	"expensebot/internal/config"
	"expensebot/internal/container"
	"expensebot/internal/logging"
)

var (
	// Cfg is the loaded configuration, available after PersistentPreRun.
	Cfg *config.Config

	// Log is the shared logger instance for commands.
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expensebot",
		Short: "A Telegram bot that logs expenses to Google Sheets and auto-categorizes them.",
		Long: `expensebot logs expenses sent over Telegram into a monthly Google Sheet
and classifies each one into a main and sub category using keyword rules,
a learned lookup cache and fuzzy matching.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to expensebot!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLogging(cfg))
			logging.SetDefault(Log)
		},
	}
)

// App wires the dependency container for the loaded configuration.
func App() *container.Container {
	c, err := container.NewContainer(Cfg, Log)
	if err != nil {
		Log.WithError(err).Fatal("Failed to wire dependencies")
	}
	return c
}
