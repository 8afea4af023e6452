// Package detect classifies a single expense description from the command
// line, useful for tuning keyword rules and the fuzzy threshold.
package detect

import (
	"strings"

	"github.com/spf13/cobra"

	"expensebot/cmd/root"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect <description>",
	Short: "Classify an expense description",
	Long:  `Run the detection pipeline (keywords, exact cache, fuzzy match) on a description and print the result.`,
	Args:  cobra.MinimumNArgs(1),
	Run:   detectFunc,
}

func detectFunc(cmd *cobra.Command, args []string) {
	app := root.App()
	defer func() { _ = app.Close() }()

	desc := strings.Join(args, " ")
	mainType, subType := app.Detector().DetectTypes(desc)

	if mainType == "" && subType == "" {
		cmd.Printf("%q: unclassified\n", desc)
		return
	}
	cmd.Printf("%q: %s / %s\n", desc, mainType, subType)
}
