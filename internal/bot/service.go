// Package bot implements the Telegram chat surface: logging expenses from
// plain text messages and the /start, /refresh, /reminders and /summary
// commands. Access is restricted to the configured chat IDs.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"expensebot/internal/classifier"
	"expensebot/internal/config"
	"expensebot/internal/dateutils"
	"expensebot/internal/logging"
	"expensebot/internal/models"
	"expensebot/internal/reconcile"
	"expensebot/internal/reminders"
)

// SheetClient is the slice of the Sheets client the bot needs.
type SheetClient interface {
	FetchExpenses(ctx context.Context, month string) ([]models.ExpenseRow, error)
	AppendExpense(ctx context.Context, month string, row models.ExpenseRow) error
}

// Service wires the Telegram bot to the classifier, the spreadsheet and the
// reminder machinery.
type Service struct {
	cfg        *config.Config
	detector   *classifier.Detector
	sheets     SheetClient
	reconciler *reconcile.Job
	reminders  *reminders.Service
	logger     logging.Logger
	tg         *tgbot.Bot
}

// NewService builds the bot service and the underlying Telegram client.
func NewService(
	cfg *config.Config,
	detector *classifier.Detector,
	sheets SheetClient,
	reconciler *reconcile.Job,
	reminderSvc *reminders.Service,
	logger logging.Logger,
) (*Service, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	s := &Service{
		cfg:        cfg,
		detector:   detector,
		sheets:     sheets,
		reconciler: reconciler,
		reminders:  reminderSvc,
		logger:     logger,
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(s.onMessage),
	}
	if token := cfg.Server.SchedulerToken; token != "" {
		opts = append(opts, tgbot.WithWebhookSecretToken(token))
	}

	tg, err := tgbot.New(cfg.Telegram.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	s.tg = tg

	tg.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, s.onStart)
	tg.RegisterHandler(tgbot.HandlerTypeMessageText, "/refresh", tgbot.MatchTypePrefix, s.onRefresh)
	tg.RegisterHandler(tgbot.HandlerTypeMessageText, "/reminders", tgbot.MatchTypePrefix, s.onReminders)
	tg.RegisterHandler(tgbot.HandlerTypeMessageText, "/summary", tgbot.MatchTypePrefix, s.onSummary)

	return s, nil
}

// Bot exposes the underlying Telegram client (for the webhook handler).
func (s *Service) Bot() *tgbot.Bot {
	return s.tg
}

// SetWebhook registers the configured webhook URL with Telegram.
func (s *Service) SetWebhook(ctx context.Context) error {
	if s.cfg.Telegram.WebhookURL == "" {
		return fmt.Errorf("telegram.webhook_url is not configured")
	}
	_, err := s.tg.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:         s.cfg.Telegram.WebhookURL,
		SecretToken: s.cfg.Server.SchedulerToken,
	})
	if err != nil {
		return fmt.Errorf("setting telegram webhook: %w", err)
	}
	s.logger.WithField("url", s.cfg.Telegram.WebhookURL).Info("Telegram webhook registered")
	return nil
}

// StartWebhook processes queued webhook updates until the context ends.
func (s *Service) StartWebhook(ctx context.Context) {
	s.tg.StartWebhook(ctx)
}

// Broadcast sends a message to every configured user.
func (s *Service) Broadcast(ctx context.Context, text string) {
	for _, id := range s.cfg.Telegram.AllowedUserIDs {
		if err := s.send(ctx, id, text); err != nil {
			s.logger.WithError(err).WithField("chat_id", id).Warn("Failed to send broadcast message")
		}
	}
}

func (s *Service) send(ctx context.Context, chatID int64, text string) error {
	_, err := s.tg.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	return err
}

func (s *Service) reply(ctx context.Context, update *tgmodels.Update, text string) {
	if update.Message == nil {
		return
	}
	if err := s.send(ctx, update.Message.Chat.ID, text); err != nil {
		s.logger.WithError(err).Warn("Failed to send reply")
	}
}

// restricted reports whether the update comes from an allowed user and
// silently drops it otherwise.
func (s *Service) restricted(update *tgmodels.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	if !s.cfg.IsAllowed(update.Message.From.ID) {
		s.logger.WithField("user_id", update.Message.From.ID).Warn("Unauthorized user, ignoring message")
		return false
	}
	return true
}

func (s *Service) userName(id int64) string {
	for _, user := range s.cfg.Users() {
		if user.ID == id {
			return user.Name
		}
	}
	return ""
}

func (s *Service) onStart(ctx context.Context, _ *tgbot.Bot, update *tgmodels.Update) {
	if !s.restricted(update) {
		return
	}
	s.reply(ctx, update,
		"Hi! I am Expense Bot. Send me an expense as \"<description> <amount>\" and I will note it down for you.")
}

// onMessage handles plain text: either an expense line or a polite shrug.
func (s *Service) onMessage(ctx context.Context, _ *tgbot.Bot, update *tgmodels.Update) {
	if !s.restricted(update) {
		return
	}

	text := update.Message.Text
	if strings.EqualFold(strings.TrimSpace(text), "cancel") {
		s.reply(ctx, update, "Okay, nothing logged.")
		return
	}

	desc, amount, ok := ParseExpense(text)
	if !ok {
		s.reply(ctx, update, "I didn't get that. Send an expense as \"<description> <amount>\".")
		return
	}

	s.logExpense(ctx, update, desc, amount)
}

func (s *Service) logExpense(ctx context.Context, update *tgmodels.Update, desc string, amount decimal.Decimal) {
	mainType, subType := s.detector.DetectTypesContext(ctx, desc)

	botIdentified := models.BotIdentifiedNo
	if mainType != "" || subType != "" {
		botIdentified = models.BotIdentifiedYes
	}

	row := models.ExpenseRow{
		Date:          dateutils.SheetDate(dateutils.NowIST()),
		Desc:          desc,
		Amount:        amount.String(),
		MainType:      mainType,
		SubType:       subType,
		User:          s.userName(update.Message.From.ID),
		BotIdentified: botIdentified,
	}

	if err := s.sheets.AppendExpense(ctx, s.cfg.CurrentMonth(), row); err != nil {
		s.logger.WithError(err).Error("Failed to log expense")
		s.reply(ctx, update, "Sorry, I couldn't log that expense. Please try again.")
		return
	}

	if mainType == "" && subType == "" {
		s.reply(ctx, update, fmt.Sprintf(
			"Logged <b>%s</b> for <b>%s</b>. I couldn't classify it, please set the category in the sheet.",
			amount.String(), desc))
		return
	}
	s.reply(ctx, update, fmt.Sprintf(
		"Logged <b>%s</b> for <b>%s</b> under <b>%s / %s</b>.",
		amount.String(), desc, mainType, subType))
}

func (s *Service) onRefresh(ctx context.Context, _ *tgbot.Bot, update *tgmodels.Update) {
	if !s.restricted(update) {
		return
	}
	result := s.reconciler.Run(ctx)
	s.reply(ctx, update, fmt.Sprintf("Refresh %s: %s", result.Status, result.Message))
}

func (s *Service) onReminders(ctx context.Context, _ *tgbot.Bot, update *tgmodels.Update) {
	if !s.restricted(update) {
		return
	}

	messages, err := s.reminders.Messages(ctx, dateutils.NowIST())
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute reminders")
		s.reply(ctx, update, "Sorry, I couldn't fetch the reminders right now.")
		return
	}
	if len(messages) == 0 {
		s.reply(ctx, update, "No reminders for today for any fixed expenses. Enjoy your day!")
		return
	}
	for _, msg := range messages {
		s.reply(ctx, update, msg)
	}
}

func (s *Service) onSummary(ctx context.Context, _ *tgbot.Bot, update *tgmodels.Update) {
	if !s.restricted(update) {
		return
	}

	rows, err := s.sheets.FetchExpenses(ctx, s.cfg.CurrentMonth())
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch expense summary")
		s.reply(ctx, update, "Sorry, I couldn't fetch the expenses right now.")
		return
	}
	s.reply(ctx, update, FormatSummary(rows))
}

// FormatSummary renders the month's expenses as a fixed-width text table
// with a total line.
func FormatSummary(rows []models.ExpenseRow) string {
	if len(rows) == 0 {
		return "No expenses logged this month yet."
	}

	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-5s %-20s %10s\n", "Date", "Description", "Amount"))

	total := decimal.Zero
	for _, row := range rows {
		desc := row.Desc
		if len(desc) > 20 {
			desc = desc[:20]
		}
		b.WriteString(fmt.Sprintf("%-5s %-20s %10s\n", row.Date, desc, row.Amount))
		total = total.Add(row.NumericAmount())
	}

	b.WriteString(fmt.Sprintf("%-26s %10s\n", "Total", total.String()))
	b.WriteString("</pre>")
	return b.String()
}
