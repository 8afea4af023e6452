package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

type stubExpenseSource struct {
	rows  []models.ExpenseRow
	err   error
	month string
}

func (s *stubExpenseSource) FetchExpenses(_ context.Context, month string) ([]models.ExpenseRow, error) {
	s.month = month
	return s.rows, s.err
}

type stubEntrySink struct {
	entries []models.TypeEntry
	added   int
	err     error
}

func (s *stubEntrySink) Append(entries []models.TypeEntry) (int, error) {
	s.entries = entries
	return s.added, s.err
}

type stubReloader struct {
	reloads int
}

func (s *stubReloader) Reload() { s.reloads++ }

func monthFn() string { return "January" }

func sheetRows() []models.ExpenseRow {
	return []models.ExpenseRow{
		// Human categorized, should feed the store.
		{Desc: "Uber", Amount: "250", MainType: "Travel", SubType: "Cab", BotIdentified: "No"},
		// Bot categorized, must be skipped.
		{Desc: "pizza", Amount: "400", MainType: "Food", SubType: "Dining", BotIdentified: "Yes"},
		// Not categorized yet, must be skipped.
		{Desc: "atm withdrawal", Amount: "2000"},
		// Only one level filled in, must be skipped.
		{Desc: "chemist", Amount: "150", MainType: "Health"},
	}
}

func TestJobRunFiltersRows(t *testing.T) {
	source := &stubExpenseSource{rows: sheetRows()}
	sink := &stubEntrySink{added: 1}
	reloader := &stubReloader{}
	job := NewJob(source, sink, reloader, monthFn, &logging.MockLogger{})

	result := job.Run(context.Background())

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, "January", source.month)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "uber", sink.entries[0].Desc, "descriptions are stored lowercased")
	assert.Equal(t, "Travel", sink.entries[0].MainType)
	assert.Equal(t, 1, reloader.reloads)
}

func TestJobRunFetchFailure(t *testing.T) {
	source := &stubExpenseSource{err: errors.New("api down")}
	reloader := &stubReloader{}
	job := NewJob(source, &stubEntrySink{}, reloader, monthFn, &logging.MockLogger{})

	result := job.Run(context.Background())

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "fetching expenses")
	assert.Equal(t, 0, reloader.reloads, "a failed run must not reload the cache")
}

func TestJobRunAppendFailure(t *testing.T) {
	source := &stubExpenseSource{rows: sheetRows()}
	sink := &stubEntrySink{err: errors.New("disk full")}
	reloader := &stubReloader{}
	job := NewJob(source, sink, reloader, monthFn, &logging.MockLogger{})

	result := job.Run(context.Background())

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "appending entries")
	assert.Equal(t, 0, reloader.reloads)
}

func TestJobRunNoNewEntries(t *testing.T) {
	// All rows bot-identified: nothing to learn, but the run still succeeds
	// and still reloads the cache.
	source := &stubExpenseSource{rows: []models.ExpenseRow{
		{Desc: "pizza", MainType: "Food", SubType: "Dining", BotIdentified: "Yes"},
	}}
	sink := &stubEntrySink{}
	reloader := &stubReloader{}
	job := NewJob(source, sink, reloader, monthFn, &logging.MockLogger{})

	result := job.Run(context.Background())

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0, result.Added)
	assert.Empty(t, sink.entries)
	assert.Equal(t, 1, reloader.reloads)
}
