package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

type stubStrategy struct {
	name  string
	pair  models.TypePair
	ok    bool
	calls int
	panic bool
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Detect(_ context.Context, _ string) (models.TypePair, bool) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	return s.pair, s.ok
}

func newTestDetector(source *stubTypesSource, rules []models.KeywordRule) *Detector {
	logger := &logging.MockLogger{}
	cache := NewTypeCache(source, DefaultFuzzyThreshold, logger)
	return NewDetector(logger,
		NewKeywordStrategy(&stubKeywordSource{rules: rules}, logger),
		&ExactStrategy{Cache: cache},
		&FuzzyStrategy{Cache: cache},
	)
}

func TestDetectTypesPipeline(t *testing.T) {
	source := &stubTypesSource{entries: []models.TypeEntry{
		{Desc: "starbucks coffee", MainType: "Food", SubType: "Outside Food/Dining/Snacks"},
		{Desc: "uber", MainType: "Travel", SubType: "Cab"},
	}}
	detector := newTestDetector(source, defaultRules())

	tests := []struct {
		name     string
		desc     string
		wantMain string
		wantSub  string
	}{
		{
			name:     "keyword tier",
			desc:     "Pizza with friends",
			wantMain: "Food",
			wantSub:  "Outside Food/Dining/Snacks",
		},
		{
			name:     "exact cache tier is case insensitive",
			desc:     "UBER",
			wantMain: "Travel",
			wantSub:  "Cab",
		},
		{
			name:     "fuzzy tier catches typos",
			desc:     "starbucks cofee",
			wantMain: "Food",
			wantSub:  "Outside Food/Dining/Snacks",
		},
		{
			name: "unknown description is unclassified",
			desc: "mystery purchase",
		},
		{
			name: "empty description is unclassified",
			desc: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mainType, subType := detector.DetectTypes(tt.desc)
			assert.Equal(t, tt.wantMain, mainType)
			assert.Equal(t, tt.wantSub, subType)
		})
	}
}

func TestDetectTypesKeywordBeatsCache(t *testing.T) {
	// The cache holds a conflicting entry for the same description. The
	// keyword tier runs first, so the cache must never be consulted.
	source := &stubTypesSource{entries: []models.TypeEntry{
		{Desc: "pizza", MainType: "Entertainment", SubType: "Parties"},
	}}
	detector := newTestDetector(source, defaultRules())

	mainType, subType := detector.DetectTypes("pizza")
	assert.Equal(t, "Food", mainType)
	assert.Equal(t, "Outside Food/Dining/Snacks", subType)
	assert.Equal(t, 0, source.loads, "keyword hit must not trigger a cache load")
}

func TestDetectTypesFirstMatchShortCircuits(t *testing.T) {
	first := &stubStrategy{name: "first", pair: models.TypePair{MainType: "A", SubType: "B"}, ok: true}
	second := &stubStrategy{name: "second"}
	detector := NewDetector(&logging.MockLogger{}, first, second)

	mainType, subType := detector.DetectTypes("anything")
	assert.Equal(t, "A", mainType)
	assert.Equal(t, "B", subType)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestDetectTypesRecoversFromPanic(t *testing.T) {
	logger := &logging.MockLogger{}
	detector := NewDetector(logger, &stubStrategy{name: "broken", panic: true})

	mainType, subType := detector.DetectTypes("pizza")
	assert.Equal(t, "", mainType)
	assert.Equal(t, "", subType)
	assert.True(t, logger.HasEntry("ERROR", "Type detection failed, returning unclassified"))
}

func TestDetectTypesMalformedKeywordsStillUsesCache(t *testing.T) {
	logger := &logging.MockLogger{}
	source := &stubTypesSource{entries: []models.TypeEntry{
		{Desc: "uber", MainType: "Travel", SubType: "Cab"},
	}}
	cache := NewTypeCache(source, DefaultFuzzyThreshold, logger)
	detector := NewDetector(logger,
		NewKeywordStrategy(&stubKeywordSource{err: assert.AnError}, logger),
		&ExactStrategy{Cache: cache},
		&FuzzyStrategy{Cache: cache},
	)

	mainType, subType := detector.DetectTypes("uber")
	assert.Equal(t, "Travel", mainType)
	assert.Equal(t, "Cab", subType)
}

func TestDetectPairForm(t *testing.T) {
	detector := newTestDetector(&stubTypesSource{}, defaultRules())

	pair := detector.Detect(context.Background(), "burger")
	assert.Equal(t, models.TypePair{MainType: "Food", SubType: "Outside Food/Dining/Snacks"}, pair)

	pair = detector.Detect(context.Background(), "nothing known")
	assert.True(t, pair.IsZero())
}
