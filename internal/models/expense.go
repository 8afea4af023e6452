// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Spreadsheet cell text used for the bot-identified flag.
const (
	BotIdentifiedYes = "Yes"
	BotIdentifiedNo  = "No"
)

// ExpenseRow is one logged transaction as it appears in the monthly sheet
// (columns B through H). Missing trailing cells default to empty strings;
// BotIdentified defaults to "No".
type ExpenseRow struct {
	RowID         int    `csv:"-"`
	Date          string `csv:"Date"`
	Desc          string `csv:"Description"`
	Amount        string `csv:"Amount"`
	MainType      string `csv:"Main Type"`
	SubType       string `csv:"Sub Type"`
	User          string `csv:"User"`
	BotIdentified string `csv:"Bot Identified"`
}

// NumericAmount parses the amount cell, tolerating thousands separators.
// Unparseable or empty amounts count as zero.
func (e ExpenseRow) NumericAmount() decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(e.Amount), ",", "")
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// HasTypes reports whether both category levels are filled in.
func (e ExpenseRow) HasTypes() bool {
	return e.MainType != "" && e.SubType != ""
}

// IsBotIdentified reports whether the category was assigned by the bot
// rather than a human.
func (e ExpenseRow) IsBotIdentified() bool {
	return strings.EqualFold(strings.TrimSpace(e.BotIdentified), BotIdentifiedYes)
}
