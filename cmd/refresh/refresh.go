// Package refresh runs one reconciliation pass from the command line.
package refresh

import (
	"github.com/spf13/cobra"

	"expensebot/cmd/root"
	"expensebot/internal/reconcile"
)

// Cmd represents the refresh command
var Cmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the types data from the spreadsheet",
	Long:  `Scan the current month's sheet for human-categorized rows and fold the new ones into the types data store.`,
	Run:   refreshFunc,
}

func refreshFunc(cmd *cobra.Command, args []string) {
	app := root.App()
	defer func() { _ = app.Close() }()

	job, err := app.Reconciler(cmd.Context())
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create reconciliation job")
	}

	result := job.Run(cmd.Context())
	if result.Status == reconcile.StatusError {
		root.Log.WithField("message", result.Message).Fatal("Refresh failed")
	}
	cmd.Printf("%s (%d new entries)\n", result.Message, result.Added)
}
