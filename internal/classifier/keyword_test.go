package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

type stubKeywordSource struct {
	rules []models.KeywordRule
	err   error
}

func (s *stubKeywordSource) Load() ([]models.KeywordRule, error) {
	return s.rules, s.err
}

func defaultRules() []models.KeywordRule {
	return []models.KeywordRule{
		{
			Name:     "food",
			MainType: "Food",
			SubType:  "Outside Food/Dining/Snacks",
			Keywords: []string{"pizza", "burger", "lunch", "dinner", "zomato", "swiggy"},
		},
		{
			Name:     "groceries",
			MainType: "Household",
			SubType:  "Groceries",
			Keywords: []string{"milk", "bread", "vegetables", "grocery"},
		},
	}
}

func TestKeywordStrategyDetect(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		wantPair models.TypePair
		wantOK   bool
	}{
		{
			name:     "single food keyword",
			desc:     "pizza",
			wantPair: models.TypePair{MainType: "Food", SubType: "Outside Food/Dining/Snacks"},
			wantOK:   true,
		},
		{
			name:     "keyword inside a longer description",
			desc:     "veg pizza from the corner shop",
			wantPair: models.TypePair{MainType: "Food", SubType: "Outside Food/Dining/Snacks"},
			wantOK:   true,
		},
		{
			name:     "groceries keyword",
			desc:     "milk and eggs",
			wantPair: models.TypePair{MainType: "Household", SubType: "Groceries"},
			wantOK:   true,
		},
		{
			name:   "substring is not a whole word match",
			desc:   "pizzeria bill",
			wantOK: false,
		},
		{
			name:   "no keyword present",
			desc:   "cab to airport",
			wantOK: false,
		},
		{
			name:   "empty description",
			desc:   "",
			wantOK: false,
		},
	}

	strategy := NewKeywordStrategy(&stubKeywordSource{rules: defaultRules()}, &logging.MockLogger{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok := strategy.Detect(context.Background(), tt.desc)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPair, pair)
			}
		})
	}
}

func TestKeywordStrategyRuleOrder(t *testing.T) {
	// Both rules match "lunch"; the first one in config order must win.
	rules := []models.KeywordRule{
		{Name: "first", MainType: "Food", SubType: "Dining", Keywords: []string{"lunch"}},
		{Name: "second", MainType: "Work", SubType: "Meals", Keywords: []string{"lunch"}},
	}
	strategy := NewKeywordStrategy(&stubKeywordSource{rules: rules}, &logging.MockLogger{})

	pair, ok := strategy.Detect(context.Background(), "team lunch")
	assert.True(t, ok)
	assert.Equal(t, "Food", pair.MainType)
	assert.Equal(t, "Dining", pair.SubType)
}

func TestKeywordStrategyLoadFailureDisablesStage(t *testing.T) {
	logger := &logging.MockLogger{}
	strategy := NewKeywordStrategy(&stubKeywordSource{err: errors.New("yaml: bad")}, logger)

	_, ok := strategy.Detect(context.Background(), "pizza")
	assert.False(t, ok)
	assert.True(t, logger.HasEntry("WARN", "Failed to load keyword rules, keyword stage disabled"))
}

func TestKeywordStrategyReload(t *testing.T) {
	source := &stubKeywordSource{}
	strategy := NewKeywordStrategy(source, &logging.MockLogger{})

	_, ok := strategy.Detect(context.Background(), "pizza")
	assert.False(t, ok)

	source.rules = defaultRules()
	strategy.Reload()

	_, ok = strategy.Detect(context.Background(), "pizza")
	assert.True(t, ok)
}

func TestMatchKeywordsCaseInsensitive(t *testing.T) {
	assert.True(t, matchKeywords([]string{"pizza"}, []string{"PIZZA"}))
	assert.False(t, matchKeywords(nil, []string{"pizza"}))
	assert.False(t, matchKeywords([]string{"pizza"}, nil))
}
