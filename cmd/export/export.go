// Package export dumps a month's expense rows to a CSV file.
package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"expensebot/cmd/root"
)

var (
	output string
	month  string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month's expenses to CSV",
	Long:  `Fetch the expense rows of a monthly sheet and write them to a CSV file.`,
	Run:   exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "expenses.csv", "Output CSV file")
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Sheet name to export (default: current month)")
}

func exportFunc(cmd *cobra.Command, args []string) {
	app := root.App()
	defer func() { _ = app.Close() }()

	client, err := app.Sheets(cmd.Context())
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create sheets client")
	}

	sheetName := month
	if sheetName == "" {
		sheetName = root.Cfg.CurrentMonth()
	}

	rows, err := client.FetchExpenses(cmd.Context(), sheetName)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to fetch expenses")
	}

	file, err := os.Create(output)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create output file")
	}
	defer func() {
		if err := file.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close output file")
		}
	}()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		root.Log.WithError(err).Fatal("Failed to write CSV")
	}

	cmd.Println(fmt.Sprintf("Exported %d rows from %s to %s", len(rows), sheetName, output))
}
