package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/logging"
)

const remindersYAML = `- desc: House rent
  main_type: Household
  sub_type: Rent
  date_range: 1-5
- desc: SIP investment
  main_type: Savings
  sub_type: Mutual Funds
  date_range: 5-10
`

func TestReminderStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.yaml")
	require.NoError(t, os.WriteFile(path, []byte(remindersYAML), 0o644))

	store := NewReminderStore(path, &logging.MockLogger{})
	reminders, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reminders, 2)

	assert.Equal(t, "House rent", reminders[0].Desc)
	assert.Equal(t, "1-5", reminders[0].DateRange)
	assert.Equal(t, "Mutual Funds", reminders[1].SubType)
}

func TestReminderStoreLoadMissingFile(t *testing.T) {
	logger := &logging.MockLogger{}
	store := NewReminderStore(filepath.Join(t.TempDir(), "reminders.yaml"), logger)

	reminders, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, reminders)
	assert.True(t, logger.HasEntry("WARN", "Reminders file not found"))
}
