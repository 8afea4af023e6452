package classifier

import (
	"context"
	"strings"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// KeywordSource loads the ordered keyword rules.
type KeywordSource interface {
	Load() ([]models.KeywordRule, error)
}

// KeywordStrategy matches whole words of the description against the
// configured trigger-word sets. Rule order is significant: the first rule
// sharing any word with the description wins.
type KeywordStrategy struct {
	rules  []models.KeywordRule
	store  KeywordSource
	logger logging.Logger
}

// NewKeywordStrategy creates the strategy and loads its rules. A missing or
// malformed keyword source disables the stage rather than failing: the
// strategy simply never matches.
func NewKeywordStrategy(store KeywordSource, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &KeywordStrategy{store: store, logger: logger}
	s.loadRules()
	return s
}

// Name returns the name of this strategy for logging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Detect returns the first rule whose keyword set shares a whole word with
// the description. Substring containment is not a match: "pizzeria" does not
// trigger a "pizza" keyword.
func (s *KeywordStrategy) Detect(_ context.Context, descLower string) (models.TypePair, bool) {
	if len(s.rules) == 0 {
		return models.TypePair{}, false
	}

	words := strings.Fields(descLower)
	for _, rule := range s.rules {
		if matchKeywords(words, rule.Keywords) {
			s.logger.WithFields(
				logging.Field{Key: "strategy", Value: s.Name()},
				logging.Field{Key: "rule", Value: rule.Name},
				logging.Field{Key: "main_type", Value: rule.MainType},
			).Debug("Description matched keyword rule")
			return models.TypePair{MainType: rule.MainType, SubType: rule.SubType}, true
		}
	}
	return models.TypePair{}, false
}

// Reload re-reads the rules from the source, e.g. after the YAML file
// changed on disk.
func (s *KeywordStrategy) Reload() {
	s.loadRules()
}

func (s *KeywordStrategy) loadRules() {
	rules, err := s.store.Load()
	if err != nil {
		// Fail open: the cache stages still run.
		s.logger.WithError(err).Warn("Failed to load keyword rules, keyword stage disabled")
		s.rules = nil
		return
	}
	s.rules = rules
	s.logger.WithField("count", len(rules)).Debug("Loaded keyword rules for KeywordStrategy")
}

// matchKeywords reports whether any description word appears in the keyword
// set, case-insensitively.
func matchKeywords(words []string, keywords []string) bool {
	if len(words) == 0 || len(keywords) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[strings.ToLower(k)] = struct{}{}
	}
	for _, word := range words {
		if _, ok := set[word]; ok {
			return true
		}
	}
	return false
}
