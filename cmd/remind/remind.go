// Package remind prints or broadcasts the reminder sweep.
package remind

import (
	"github.com/spf13/cobra"

	"expensebot/cmd/root"
	"expensebot/internal/dateutils"
)

var broadcast bool

// Cmd represents the remind command
var Cmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder sweep",
	Long:  `Compute the reminders due today (recurring expenses and credit-card payments) and print them, or broadcast them to the configured Telegram users.`,
	Run:   remindFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&broadcast, "broadcast", "b", false, "Send the reminders over Telegram instead of printing them")
}

func remindFunc(cmd *cobra.Command, args []string) {
	app := root.App()
	defer func() { _ = app.Close() }()

	svc, err := app.Reminders(cmd.Context())
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create reminder service")
	}

	messages, err := svc.Messages(cmd.Context(), dateutils.NowIST())
	if err != nil {
		root.Log.WithError(err).Fatal("Reminder sweep failed")
	}
	if len(messages) == 0 {
		cmd.Println("No reminders due today.")
		return
	}

	if broadcast {
		botSvc, err := app.Bot(cmd.Context())
		if err != nil {
			root.Log.WithError(err).Fatal("Failed to create bot service")
		}
		for _, msg := range messages {
			botSvc.Broadcast(cmd.Context(), msg)
		}
		cmd.Printf("Broadcast %d reminder(s).\n", len(messages))
		return
	}

	for _, msg := range messages {
		cmd.Println(msg)
	}
}
