package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"expensebot/internal/dateutils"
)

// User is one person allowed to chat with the bot.
type User struct {
	ID   int64
	Name string
}

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Telegram struct {
		Token          string  `mapstructure:"token" yaml:"-"` // never serialize the token
		WebhookURL     string  `mapstructure:"webhook_url" yaml:"webhook_url"`
		AllowedUserIDs []int64 `mapstructure:"allowed_user_ids" yaml:"allowed_user_ids"`
		UserNames      []string `mapstructure:"user_names" yaml:"user_names"`
	} `mapstructure:"telegram" yaml:"telegram"`

	Sheets struct {
		SpreadsheetID   string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
		CredentialsJSON string `mapstructure:"credentials_json" yaml:"-"`
		MonthOverride   string `mapstructure:"month_override" yaml:"month_override"`
	} `mapstructure:"sheets" yaml:"sheets"`

	Data struct {
		TypesFile     string `mapstructure:"types_file" yaml:"types_file"`
		KeywordsFile  string `mapstructure:"keywords_file" yaml:"keywords_file"`
		RemindersFile string `mapstructure:"reminders_file" yaml:"reminders_file"`
	} `mapstructure:"data" yaml:"data"`

	Classifier struct {
		FuzzyThreshold int `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold"`
	} `mapstructure:"classifier" yaml:"classifier"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"`
	} `mapstructure:"ai" yaml:"ai"`

	Server struct {
		Addr           string `mapstructure:"addr" yaml:"addr"`
		SchedulerToken string `mapstructure:"scheduler_token" yaml:"-"`
	} `mapstructure:"server" yaml:"server"`

	Schedule struct {
		Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
		RefreshCron   string `mapstructure:"refresh_cron" yaml:"refresh_cron"`
		RemindersCron string `mapstructure:"reminders_cron" yaml:"reminders_cron"`
	} `mapstructure:"schedule" yaml:"schedule"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then EXPENSEBOT_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.expensebot")
	v.AddConfigPath(".expensebot")
	v.AddConfigPath(".")

	v.SetEnvPrefix("EXPENSEBOT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file present but unreadable: keep going with defaults
			// and environment variables.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// Secrets always come from unprefixed environment variables.
	for key, env := range map[string]string{
		"telegram.token":          "BOT_TOKEN",
		"ai.api_key":              "GEMINI_API_KEY",
		"server.scheduler_token":  "SCHEDULER_TOKEN",
		"sheets.credentials_json": "SHEETS_CREDS",
	} {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telegram.allowed_user_ids", []int64{})
	v.SetDefault("telegram.user_names", []string{})

	v.SetDefault("data.types_file", "types_data.json")
	v.SetDefault("data.keywords_file", "keywords.yaml")
	v.SetDefault("data.reminders_file", "reminders.yaml")

	v.SetDefault("classifier.fuzzy_threshold", 75)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.refresh_cron", "30 18 * * *")
	v.SetDefault("schedule.reminders_cron", "0 9 * * *")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Classifier.FuzzyThreshold < 0 || config.Classifier.FuzzyThreshold > 100 {
		return fmt.Errorf("classifier.fuzzy_threshold must be between 0 and 100, got: %d",
			config.Classifier.FuzzyThreshold)
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}

	if len(config.Telegram.UserNames) != 0 &&
		len(config.Telegram.UserNames) != len(config.Telegram.AllowedUserIDs) {
		return fmt.Errorf("telegram.user_names must match telegram.allowed_user_ids in length")
	}

	return nil
}

// Users zips allowed user IDs and names into User records. Names are
// optional; an unnamed user gets an empty name.
func (c *Config) Users() []User {
	users := make([]User, 0, len(c.Telegram.AllowedUserIDs))
	for i, id := range c.Telegram.AllowedUserIDs {
		user := User{ID: id}
		if i < len(c.Telegram.UserNames) {
			user.Name = c.Telegram.UserNames[i]
		}
		users = append(users, user)
	}
	return users
}

// IsAllowed reports whether the chat ID belongs to a configured user.
func (c *Config) IsAllowed(id int64) bool {
	for _, allowed := range c.Telegram.AllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

// CurrentMonth returns the name of the monthly sheet to operate on. The
// override exists for test spreadsheets with a fixed sheet name.
func (c *Config) CurrentMonth() string {
	if c.Sheets.MonthOverride != "" {
		return c.Sheets.MonthOverride
	}
	return dateutils.MonthName(dateutils.NowIST())
}

// ConfigureLogging builds the application logger from the Log section.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
