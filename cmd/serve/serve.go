// Package serve runs the bot's HTTP server: the Telegram webhook plus the
// scheduler endpoints, with optional in-process cron jobs.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"expensebot/cmd/root"
	"expensebot/internal/dateutils"
	"expensebot/internal/schedule"
	"expensebot/internal/server"
)

var skipWebhook bool

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot server",
	Long:  `Start the HTTP server that receives Telegram webhook updates and the scheduler-triggered refresh and reminder endpoints.`,
	Run:   serveFunc,
}

func init() {
	Cmd.Flags().BoolVar(&skipWebhook, "skip-webhook", false, "Do not (re)register the Telegram webhook on startup")
}

func serveFunc(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := root.App()
	defer func() { _ = app.Close() }()

	botSvc, err := app.Bot(ctx)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create bot service")
	}
	reconciler, err := app.Reconciler(ctx)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create reconciliation job")
	}
	reminderSvc, err := app.Reminders(ctx)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to create reminder service")
	}

	if !skipWebhook {
		if err := botSvc.SetWebhook(ctx); err != nil {
			root.Log.WithError(err).Fatal("Failed to register Telegram webhook")
		}
	}
	go botSvc.StartWebhook(ctx)

	srv := server.New(
		botSvc.Bot().WebhookHandler(),
		reconciler,
		reminderSvc,
		botSvc,
		root.Cfg.Server.SchedulerToken,
		root.Log,
	)

	var sched *schedule.Scheduler
	if root.Cfg.Schedule.Enabled {
		sched = schedule.New(root.Log)
		if err := sched.Add(root.Cfg.Schedule.RefreshCron, "types_refresh", func() {
			reconciler.Run(context.Background())
		}); err != nil {
			root.Log.WithError(err).Fatal("Invalid refresh cron expression")
		}
		if err := sched.Add(root.Cfg.Schedule.RemindersCron, "reminders", func() {
			jobCtx := context.Background()
			messages, err := reminderSvc.Messages(jobCtx, dateutils.NowIST())
			if err != nil {
				root.Log.WithError(err).Error("Scheduled reminder sweep failed")
				return
			}
			for _, msg := range messages {
				botSvc.Broadcast(jobCtx, msg)
			}
		}); err != nil {
			root.Log.WithError(err).Fatal("Invalid reminders cron expression")
		}
		sched.Start()
		defer sched.Stop()
	}

	httpSrv := &http.Server{
		Addr:              root.Cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			root.Log.WithError(err).Warn("HTTP server shutdown failed")
		}
	}()

	root.Log.WithField("addr", root.Cfg.Server.Addr).Info("Expense bot listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		root.Log.WithError(err).Fatal("HTTP server failed")
	}
	root.Log.Info("Expense bot stopped")
}
