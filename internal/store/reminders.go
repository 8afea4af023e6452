package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// ReminderStore loads the recurring-expense reminder definitions.
type ReminderStore struct {
	path   string
	logger logging.Logger
}

// NewReminderStore creates a store backed by the given YAML file.
func NewReminderStore(path string, logger logging.Logger) *ReminderStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ReminderStore{path: path, logger: logger}
}

// Load reads all reminder definitions. A missing file is an empty dataset.
func (s *ReminderStore) Load() ([]models.Reminder, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", s.path).Warn("Reminders file not found")
			return nil, nil
		}
		return nil, fmt.Errorf("error reading reminders file: %w", err)
	}

	var reminders []models.Reminder
	if err := yaml.Unmarshal(data, &reminders); err != nil {
		return nil, fmt.Errorf("error parsing reminders file: %w", err)
	}

	s.logger.WithField("count", len(reminders)).Debug("Loaded reminders")
	return reminders, nil
}
