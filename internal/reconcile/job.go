// Package reconcile grows the persistent classification store from
// spreadsheet rows a human has categorized, then reloads the in-memory
// cache. This is the system's only feedback loop: manual corrections teach
// future auto-classification.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// Result statuses. The job reports failures instead of returning errors
// because it usually runs unattended on a schedule.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the structured outcome of one reconciliation run.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Added   int    `json:"added"`
}

// ExpenseSource fetches the current expense rows.
type ExpenseSource interface {
	FetchExpenses(ctx context.Context, month string) ([]models.ExpenseRow, error)
}

// EntrySink appends entries not yet present in the persistent store and
// reports how many were written.
type EntrySink interface {
	Append(entries []models.TypeEntry) (int, error)
}

// CacheReloader refreshes the in-memory classification cache from the store.
type CacheReloader interface {
	Reload()
}

// Job diffs human-categorized rows against the persistent store and appends
// the unseen ones. Running it twice with no new human-classified rows does
// not grow the store.
type Job struct {
	source  ExpenseSource
	store   EntrySink
	cache   CacheReloader
	monthFn func() string
	logger  logging.Logger
}

// NewJob wires a reconciliation job. monthFn names the sheet to scan, which
// changes month to month.
func NewJob(source ExpenseSource, store EntrySink, cache CacheReloader, monthFn func() string, logger logging.Logger) *Job {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Job{
		source:  source,
		store:   store,
		cache:   cache,
		monthFn: monthFn,
		logger:  logger,
	}
}

// Run executes one reconciliation pass. Only rows with both category levels
// assigned by a human (bot-identified is not "Yes") feed the store.
func (j *Job) Run(ctx context.Context) Result {
	month := j.monthFn()

	rows, err := j.source.FetchExpenses(ctx, month)
	if err != nil {
		j.logger.WithError(err).Error("Reconciliation failed to fetch expenses")
		return Result{Status: StatusError, Message: fmt.Sprintf("fetching expenses: %v", err)}
	}

	entries := make([]models.TypeEntry, 0, len(rows))
	for _, row := range rows {
		if !row.HasTypes() || row.IsBotIdentified() {
			continue
		}
		entries = append(entries, models.TypeEntry{
			Desc:     strings.ToLower(row.Desc),
			MainType: row.MainType,
			SubType:  row.SubType,
		})
	}

	added, err := j.store.Append(entries)
	if err != nil {
		j.logger.WithError(err).Error("Reconciliation failed to append entries")
		return Result{Status: StatusError, Message: fmt.Sprintf("appending entries: %v", err)}
	}

	j.cache.Reload()

	j.logger.WithFields(
		logging.Field{Key: "month", Value: month},
		logging.Field{Key: "candidates", Value: len(entries)},
		logging.Field{Key: "added", Value: added},
	).Info("Types data refreshed")
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("types data refreshed, %d new entries", added),
		Added:   added,
	}
}
