package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// KeywordStore loads the ordered keyword rules from a YAML file.
type KeywordStore struct {
	path   string
	logger logging.Logger
}

// NewKeywordStore creates a store backed by the given YAML file.
func NewKeywordStore(path string, logger logging.Logger) *KeywordStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &KeywordStore{path: path, logger: logger}
}

// Load reads the keyword rules. A missing file yields no rules and no error
// so the keyword stage simply stays disabled; malformed content is an error.
func (s *KeywordStore) Load() ([]models.KeywordRule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", s.path).Warn("Keywords file not found")
			return nil, nil
		}
		return nil, fmt.Errorf("error reading keywords file: %w", err)
	}

	// Preferred shape: a top-level "rules" key.
	var config models.KeywordsConfig
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Rules) > 0 {
		s.logger.WithField("count", len(config.Rules)).Debug("Loaded keyword rules")
		return config.Rules, nil
	}

	// Fallback: a bare list of rules.
	var rules []models.KeywordRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing keywords file: %w", err)
	}

	s.logger.WithField("count", len(rules)).Debug("Loaded keyword rules")
	return rules, nil
}
