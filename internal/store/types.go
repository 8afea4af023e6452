// Package store provides the durable files behind the classifier: the
// learned types store, the keyword rules and the reminder definitions.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// TypesStore persists learned description-to-category entries as a JSON
// array. The reconciliation job is its only writer.
type TypesStore struct {
	path   string
	logger logging.Logger
}

// NewTypesStore creates a store backed by the given JSON file.
func NewTypesStore(path string, logger logging.Logger) *TypesStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &TypesStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *TypesStore) Path() string {
	return s.path
}

// Load reads all persisted entries. A missing file is an empty dataset, not
// an error; malformed content is returned as an error for the caller to
// degrade on.
func (s *TypesStore) Load() ([]models.TypeEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", s.path).Warn("Types data file not found")
			return nil, nil
		}
		return nil, fmt.Errorf("error reading types data file: %w", err)
	}

	var entries []models.TypeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing types data file: %w", err)
	}

	s.logger.WithField("count", len(entries)).Debug("Loaded types data entries")
	return entries, nil
}

// Append adds the entries whose lowercased description is not already
// present, both against the file and within the batch itself, and reports
// how many were written. Appending nothing new leaves the file unchanged.
func (s *TypesStore) Append(entries []models.TypeEntry) (int, error) {
	existing, err := s.Load()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, entry := range existing {
		seen[strings.ToLower(entry.Desc)] = struct{}{}
	}

	added := 0
	for _, entry := range entries {
		key := strings.ToLower(entry.Desc)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		existing = append(existing, entry)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.write(existing); err != nil {
		return 0, err
	}

	s.logger.WithFields(
		logging.Field{Key: "added", Value: added},
		logging.Field{Key: "total", Value: len(existing)},
	).Info("Appended new entries to types data store")
	return added, nil
}

func (s *TypesStore) write(entries []models.TypeEntry) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating types data directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling types data: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("error writing types data file: %w", err)
	}
	return nil
}
