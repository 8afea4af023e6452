package container

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/config"
	"expensebot/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	var cfg config.Config
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Data.TypesFile = filepath.Join(dir, "types_data.json")
	cfg.Data.KeywordsFile = filepath.Join(dir, "keywords.yaml")
	cfg.Data.RemindersFile = filepath.Join(dir, "reminders.yaml")
	cfg.Classifier.FuzzyThreshold = 75
	return &cfg
}

func TestNewContainerNilConfig(t *testing.T) {
	_, err := NewContainer(nil, &logging.MockLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewContainerWiresOfflineComponents(t *testing.T) {
	c, err := NewContainer(testConfig(t), &logging.MockLogger{})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.NotNil(t, c.Detector())
	require.NotNil(t, c.Cache())
	assert.NotNil(t, c.Config())
	assert.NotNil(t, c.Logger())

	// Empty stores: everything is unclassified but nothing fails.
	mainType, subType := c.Detector().DetectTypes("mystery purchase")
	assert.Equal(t, "", mainType)
	assert.Equal(t, "", subType)
}

func TestContainerCloseWithoutAI(t *testing.T) {
	c, err := NewContainer(testConfig(t), &logging.MockLogger{})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
