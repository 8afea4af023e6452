// Package reminders computes the nag messages for recurring fixed expenses
// and credit-card due dates.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensebot/internal/dateutils"
	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// ReminderSource loads the configured recurring-expense reminders.
type ReminderSource interface {
	Load() ([]models.Reminder, error)
}

// ExpenseSource fetches the current expense rows.
type ExpenseSource interface {
	FetchExpenses(ctx context.Context, month string) ([]models.ExpenseRow, error)
}

// CardSource fetches the credit-card block.
type CardSource interface {
	FetchCreditCards(ctx context.Context, month string) ([]models.CreditCard, error)
}

// Service resolves which reminders are still open today.
type Service struct {
	reminders ReminderSource
	expenses  ExpenseSource
	cards     CardSource
	monthFn   func() string
	logger    logging.Logger
}

// NewService wires a reminder service.
func NewService(reminders ReminderSource, expenses ExpenseSource, cards CardSource, monthFn func() string, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Service{
		reminders: reminders,
		expenses:  expenses,
		cards:     cards,
		monthFn:   monthFn,
		logger:    logger,
	}
}

// Applicable filters reminders to those whose day-of-month range covers now.
func Applicable(all []models.Reminder, now time.Time) []models.Reminder {
	var today []models.Reminder
	for _, rem := range all {
		if dateutils.InDayRange(now, rem.DateRange) {
			today = append(today, rem)
		}
	}
	return today
}

// Active returns the applicable reminders whose expense has not been logged
// yet this month. A reminder counts as logged when a fully categorized row
// matches its main/sub pair.
func (s *Service) Active(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	all, err := s.reminders.Load()
	if err != nil {
		return nil, fmt.Errorf("loading reminders: %w", err)
	}

	applicable := Applicable(all, now)
	if len(applicable) == 0 {
		return nil, nil
	}

	rows, err := s.expenses.FetchExpenses(ctx, s.monthFn())
	if err != nil {
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}

	var open []models.Reminder
	for _, rem := range applicable {
		if reminderLogged(rem, rows) {
			s.logger.WithField("desc", rem.Desc).Debug("Expense already logged for reminder")
			continue
		}
		open = append(open, rem)
	}
	return open, nil
}

func reminderLogged(rem models.Reminder, rows []models.ExpenseRow) bool {
	for _, row := range rows {
		if row.HasTypes() && row.MainType == rem.MainType && row.SubType == rem.SubType {
			return true
		}
	}
	return false
}

// CreditCardMessages builds the due-date reminder texts for unpaid cards
// due today or tomorrow. Paid cards and cards with a zero or blank amount
// are skipped.
func CreditCardMessages(cards []models.CreditCard, now time.Time) []string {
	today := dateutils.SheetDate(now)
	tomorrow := dateutils.SheetDate(now.AddDate(0, 0, 1))

	var messages []string
	for _, card := range cards {
		if strings.EqualFold(strings.TrimSpace(card.Status), "paid") {
			continue
		}

		amount := strings.ReplaceAll(strings.TrimSpace(card.Amount), ",", "")
		if amount == "" {
			continue
		}
		value, err := decimal.NewFromString(amount)
		if err != nil || value.IsZero() {
			continue
		}

		switch card.DueDate {
		case today:
			messages = append(messages,
				fmt.Sprintf("Reminder: Your credit card payment for %s is due today - %s, with amount %s",
					card.Name, today, card.Amount))
		case tomorrow:
			messages = append(messages,
				fmt.Sprintf("Reminder: Your credit card payment for %s is due tomorrow - %s.",
					card.Name, tomorrow))
		}
	}
	return messages
}

// Messages runs the full sweep: open recurring reminders plus credit-card
// dues, rendered as message texts ready to send. An empty slice means
// nothing is due.
func (s *Service) Messages(ctx context.Context, now time.Time) ([]string, error) {
	var messages []string

	open, err := s.Active(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		var b strings.Builder
		b.WriteString("Gentle reminder for the below expenses:\n")
		for _, rem := range open {
			b.WriteString("- ")
			b.WriteString(rem.Desc)
			b.WriteString("\n")
		}
		messages = append(messages, strings.TrimRight(b.String(), "\n"))
	}

	cards, err := s.cards.FetchCreditCards(ctx, s.monthFn())
	if err != nil {
		return nil, fmt.Errorf("fetching credit cards: %w", err)
	}
	messages = append(messages, CreditCardMessages(cards, now)...)

	return messages, nil
}
