// Package container provides dependency injection for the expense bot.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"sync"

	"expensebot/internal/bot"
	"expensebot/internal/classifier"
	"expensebot/internal/config"
	"expensebot/internal/logging"
	"expensebot/internal/reconcile"
	"expensebot/internal/reminders"
	"expensebot/internal/sheets"
	"expensebot/internal/store"
)

// Container holds all application dependencies and provides methods to
// access them. Fields are private; components receive their dependencies
// through constructors and stay immutable after creation. The Sheets client
// and everything built on it are created lazily because commands like
// "detect" never touch the spreadsheet.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	detector *classifier.Detector
	cache    *classifier.TypeCache
	keywords *classifier.KeywordStrategy

	typesStore    *store.TypesStore
	reminderStore *store.ReminderStore

	aiClient *classifier.GeminiClient

	sheetsOnce sync.Once
	sheets     *sheets.Client
	sheetsErr  error
}

// NewContainer creates and wires the offline dependencies: stores, cache and
// the detection pipeline. Sheets-backed components are built on demand.
func NewContainer(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLogging(cfg))
	}

	typesStore := store.NewTypesStore(cfg.Data.TypesFile, logger)
	keywordStore := store.NewKeywordStore(cfg.Data.KeywordsFile, logger)
	reminderStore := store.NewReminderStore(cfg.Data.RemindersFile, logger)

	cache := classifier.NewTypeCache(typesStore, cfg.Classifier.FuzzyThreshold, logger)
	keywords := classifier.NewKeywordStrategy(keywordStore, logger)

	strategies := []classifier.TypeStrategy{
		keywords,
		&classifier.ExactStrategy{Cache: cache},
		&classifier.FuzzyStrategy{Cache: cache},
	}

	c := &Container{
		logger:        logger,
		config:        cfg,
		cache:         cache,
		keywords:      keywords,
		typesStore:    typesStore,
		reminderStore: reminderStore,
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		aiClient, err := classifier.NewGeminiClient(context.Background(), cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("creating ai client: %w", err)
		}
		c.aiClient = aiClient
		strategies = append(strategies, classifier.NewAIStrategy(aiClient, logger))
		logger.Info("AI classification tier enabled")
	}

	c.detector = classifier.NewDetector(logger, strategies...)
	return c, nil
}

// Logger returns the application logger.
func (c *Container) Logger() logging.Logger {
	return c.logger
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Detector returns the type detection pipeline.
func (c *Container) Detector() *classifier.Detector {
	return c.detector
}

// Cache returns the in-memory classification cache.
func (c *Container) Cache() *classifier.TypeCache {
	return c.cache
}

// Sheets returns the Google Sheets client, creating it on first call.
func (c *Container) Sheets(ctx context.Context) (*sheets.Client, error) {
	c.sheetsOnce.Do(func() {
		c.sheets, c.sheetsErr = sheets.NewClient(
			ctx,
			[]byte(c.config.Sheets.CredentialsJSON),
			c.config.Sheets.SpreadsheetID,
			c.logger,
		)
	})
	return c.sheets, c.sheetsErr
}

// Reconciler builds the reconciliation job over the Sheets client.
func (c *Container) Reconciler(ctx context.Context) (*reconcile.Job, error) {
	client, err := c.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.NewJob(client, c.typesStore, c.cache, c.config.CurrentMonth, c.logger), nil
}

// Reminders builds the reminder service over the Sheets client.
func (c *Container) Reminders(ctx context.Context) (*reminders.Service, error) {
	client, err := c.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	return reminders.NewService(c.reminderStore, client, client, c.config.CurrentMonth, c.logger), nil
}

// Bot builds the Telegram bot service with all its collaborators.
func (c *Container) Bot(ctx context.Context) (*bot.Service, error) {
	client, err := c.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	reconciler, err := c.Reconciler(ctx)
	if err != nil {
		return nil, err
	}
	reminderSvc, err := c.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	return bot.NewService(c.config, c.detector, client, reconciler, reminderSvc, c.logger)
}

// Close releases any held clients.
func (c *Container) Close() error {
	if c.aiClient != nil {
		return c.aiClient.Close()
	}
	return nil
}
