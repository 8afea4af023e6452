package classifier

import (
	"context"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// DefaultFuzzyThreshold is the similarity score (0-100) a cache entry must
// strictly exceed to count as a fuzzy match.
const DefaultFuzzyThreshold = 75

// TypesSource loads the persisted classification entries.
type TypesSource interface {
	Load() ([]models.TypeEntry, error)
}

// TypeCache holds the learned description-to-category entries, keyed by
// lowercased description. It starts empty and loads from its source at most
// once; Reload is the only other mutator. Lookups are read-only and safe for
// concurrent use.
type TypeCache struct {
	mu        sync.RWMutex
	entries   map[string]models.TypeEntry
	loaded    bool
	store     TypesSource
	threshold int
	logger    logging.Logger
}

// NewTypeCache creates an unloaded cache over the given source. A threshold
// outside (0,100] falls back to DefaultFuzzyThreshold.
func NewTypeCache(store TypesSource, threshold int, logger logging.Logger) *TypeCache {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultFuzzyThreshold
	}
	return &TypeCache{
		entries:   make(map[string]models.TypeEntry),
		store:     store,
		threshold: threshold,
		logger:    logger,
	}
}

// EnsureLoaded populates the cache from its source on first use. Subsequent
// calls are no-ops: the source is read at most once per process lifetime
// unless Reload is called. Entries missing either category level are
// discarded; a missing or malformed source yields an empty cache, never an
// error.
func (c *TypeCache) EnsureLoaded() {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return
	}
	c.entries = c.loadEntries()
	c.loaded = true
}

// Reload replaces the cache contents from the source. Called by the
// reconciliation job after it appends new entries.
func (c *TypeCache) Reload() {
	entries := c.loadEntries()

	c.mu.Lock()
	c.entries = entries
	c.loaded = true
	c.mu.Unlock()

	c.logger.WithField("count", len(entries)).Info("Type cache reloaded")
}

func (c *TypeCache) loadEntries() map[string]models.TypeEntry {
	entries := make(map[string]models.TypeEntry)

	loaded, err := c.store.Load()
	if err != nil {
		// Malformed store content degrades to an empty cache.
		c.logger.WithError(err).Warn("Failed to load types data, classification cache is empty")
		return entries
	}

	for _, entry := range loaded {
		if !entry.Valid() {
			continue
		}
		// Last write wins for duplicate descriptions.
		entries[strings.ToLower(entry.Desc)] = entry
	}
	return entries
}

// Exact looks up the lowercased description directly.
func (c *TypeCache) Exact(descLower string) (models.TypeEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[descLower]
	return entry, ok
}

// Fuzzy scans every cache entry, scoring the symmetric similarity ratio
// (0-100) between the description and each stored key, and returns the best
// entry scoring strictly above the threshold. Ties break toward the
// lexicographically smaller key so results are stable across runs.
func (c *TypeCache) Fuzzy(descLower string) (models.TypeEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		best      models.TypeEntry
		bestKey   string
		bestScore = c.threshold
		found     bool
	)
	for key, entry := range c.entries {
		score := fuzzy.Ratio(key, descLower)
		if score > bestScore || (found && score == bestScore && key < bestKey) {
			best = entry
			bestKey = key
			bestScore = score
			found = true
		}
	}
	return best, found
}

// Len returns the number of cached entries.
func (c *TypeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ExactStrategy adapts TypeCache's exact lookup to the pipeline. It loads
// the cache on first use.
type ExactStrategy struct {
	Cache *TypeCache
}

// Name returns the name of this strategy for logging.
func (s *ExactStrategy) Name() string { return "ExactCache" }

// Detect performs the exact cache lookup.
func (s *ExactStrategy) Detect(_ context.Context, descLower string) (models.TypePair, bool) {
	s.Cache.EnsureLoaded()
	entry, ok := s.Cache.Exact(descLower)
	if !ok {
		return models.TypePair{}, false
	}
	return entry.Pair(), true
}

// FuzzyStrategy adapts TypeCache's fuzzy scan to the pipeline.
type FuzzyStrategy struct {
	Cache *TypeCache
}

// Name returns the name of this strategy for logging.
func (s *FuzzyStrategy) Name() string { return "FuzzyCache" }

// Detect performs the fuzzy cache scan.
func (s *FuzzyStrategy) Detect(_ context.Context, descLower string) (models.TypePair, bool) {
	s.Cache.EnsureLoaded()
	entry, ok := s.Cache.Fuzzy(descLower)
	if !ok {
		return models.TypePair{}, false
	}
	return entry.Pair(), true
}
