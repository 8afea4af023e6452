// Package sheets wraps the Google Sheets API calls the bot needs: reading
// the monthly expense block, appending new expenses and reading the
// credit-card block.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// Sheet layout constants. Expense rows live in columns B..H starting at row
// 8; the credit-card block lives in columns T..W.
const (
	expenseStartRow  = 8
	expenseRangeFmt  = "%s!B8:J200"
	expenseAppendFmt = "%s!B8:H8"
	creditCardFmt    = "%s!T8:W13"
)

// Client talks to one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        logging.Logger
}

// NewClient creates a Sheets client from service-account credentials JSON.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string, logger logging.Logger) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// FetchExpenses reads the expense block of the given monthly sheet. Row IDs
// count from the sheet's first data row.
func (c *Client) FetchExpenses(ctx context.Context, month string) ([]models.ExpenseRow, error) {
	readRange := fmt.Sprintf(expenseRangeFmt, month)

	var result *sheets.ValueRange
	err := retry.Do(
		func() error {
			var err error
			result, err = c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).
				Context(ctx).
				Do()
			return err
		},
		retry.RetryIf(c.isRateLimited),
		retry.Attempts(3),
		retry.Delay(30*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching expenses from %s: %w", readRange, err)
	}

	rows := make([]models.ExpenseRow, 0, len(result.Values))
	for i, values := range result.Values {
		rows = append(rows, rowFromValues(values, expenseStartRow+i))
	}

	c.logger.WithFields(
		logging.Field{Key: "month", Value: month},
		logging.Field{Key: "count", Value: len(rows)},
	).Debug("Fetched expense rows")
	return rows, nil
}

// AppendExpense appends one expense row to the monthly sheet.
func (c *Client) AppendExpense(ctx context.Context, month string, row models.ExpenseRow) error {
	writeRange := fmt.Sprintf(expenseAppendFmt, month)
	writeReq := sheets.ValueRange{
		Values: [][]any{
			{row.Date, row.Desc, row.Amount, row.MainType, row.SubType, row.User, row.BotIdentified},
		},
	}

	err := retry.Do(
		func() error {
			_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, writeRange, &writeReq).
				ValueInputOption("USER_ENTERED").
				InsertDataOption("INSERT_ROWS").
				Context(ctx).
				Do()
			return err
		},
		retry.RetryIf(c.isRateLimited),
		retry.Attempts(3),
		retry.Delay(30*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("appending expense to %s: %w", writeRange, err)
	}

	c.logger.WithFields(
		logging.Field{Key: "month", Value: month},
		logging.Field{Key: "desc", Value: row.Desc},
		logging.Field{Key: "amount", Value: row.Amount},
	).Info("Logged expense row")
	return nil
}

// FetchCreditCards reads the credit-card block of the given monthly sheet.
// Rows missing any of the four cells are skipped.
func (c *Client) FetchCreditCards(ctx context.Context, month string) ([]models.CreditCard, error) {
	readRange := fmt.Sprintf(creditCardFmt, month)

	result, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching credit cards from %s: %w", readRange, err)
	}

	cards := make([]models.CreditCard, 0, len(result.Values))
	for _, values := range result.Values {
		if len(values) < 4 {
			continue
		}
		cards = append(cards, models.CreditCard{
			DueDate: cellString(values, 0),
			Name:    cellString(values, 1),
			Amount:  cellString(values, 2),
			Status:  cellString(values, 3),
		})
	}
	return cards, nil
}

func (c *Client) isRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		c.logger.WithError(err).Warn("Sheets API rate limited, will retry")
		return true
	}
	return false
}

// rowFromValues maps one raw sheet row to an ExpenseRow. Missing trailing
// cells default to empty strings; the bot-identified flag defaults to "No".
func rowFromValues(values []any, rowID int) models.ExpenseRow {
	row := models.ExpenseRow{
		RowID:         rowID,
		Date:          cellString(values, 0),
		Desc:          cellString(values, 1),
		Amount:        cellString(values, 2),
		MainType:      cellString(values, 3),
		SubType:       cellString(values, 4),
		User:          cellString(values, 5),
		BotIdentified: cellString(values, 6),
	}
	if row.BotIdentified == "" {
		row.BotIdentified = models.BotIdentifiedNo
	}
	return row
}

func cellString(values []any, idx int) string {
	if idx >= len(values) || values[idx] == nil {
		return ""
	}
	return fmt.Sprint(values[idx])
}
