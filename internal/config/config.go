// Package config loads the immutable runtime configuration from the
// environment. It is constructed once in main and passed down; nothing reads
// the environment after startup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Telegram settings. Both empty is allowed: dispatch degrades to a
	// logged no-op so the dedup engine can run without live credentials.
	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID string `env:"TELEGRAM_CHAT_ID"`

	// Dedup store. DATABASE_URL selects Postgres; otherwise the local
	// SQLite file at SeenDBPath is used.
	DatabaseURL      string        `env:"DATABASE_URL"`
	SeenDBPath       string        `env:"SEEN_DB_PATH" envDefault:"data/seen.db"`
	LinkSnapshotPath string        `env:"LINK_SNAPSHOT_PATH" envDefault:"data/seen_links.json"`
	TitleTTL         time.Duration `env:"TITLE_TTL" envDefault:"72h"`

	// Feed settings
	FeedsConfigPath string        `env:"FEEDS_CONFIG_PATH" envDefault:"configs/feeds.yaml"`
	MaxItemsPerFeed int           `env:"MAX_ITEMS_PER_FEED" envDefault:"5"`
	MaxItemAge      time.Duration `env:"MAX_ITEM_AGE" envDefault:"24h"`
	MinFreshWindow  time.Duration `env:"MIN_FRESH_WINDOW" envDefault:"0"` // 0 = strict mode off

	// Enrichment
	SummarySentences   int    `env:"SUMMARY_SENTENCES" envDefault:"4"`
	TranslateTitles    bool   `env:"TRANSLATE_TITLES" envDefault:"true"`
	TranslateSummaries bool   `env:"TRANSLATE_SUMMARIES" envDefault:"true"`
	SearchBody         bool   `env:"SEARCH_BODY" envDefault:"false"`
	GeminiAPIKey       string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey       string `env:"OPENAI_API_KEY"`

	// Scheduling and transport
	RunOnce        bool          `env:"RUN_ONCE" envDefault:"false"`
	Interval       time.Duration `env:"INTERVAL" envDefault:"5m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	DispatchDelay  time.Duration `env:"DISPATCH_DELAY" envDefault:"800ms"`

	// Observability
	HealthcheckURL string `env:"HEALTHCHECK_URL"`
	Debug          bool   `env:"DEBUG"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings that would make a run meaningless. Missing
// Telegram credentials are deliberately not an error here; the caller
// downgrades dispatch to a no-op with a warning instead.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.SeenDBPath == "" {
		return fmt.Errorf("either DATABASE_URL or SEEN_DB_PATH is required")
	}
	if c.MaxItemsPerFeed <= 0 {
		return fmt.Errorf("MAX_ITEMS_PER_FEED must be positive")
	}
	if c.MaxItemAge <= 0 {
		return fmt.Errorf("MAX_ITEM_AGE must be positive")
	}
	if c.TitleTTL <= 0 {
		return fmt.Errorf("TITLE_TTL must be positive")
	}
	if c.SummarySentences <= 0 {
		return fmt.Errorf("SUMMARY_SENTENCES must be positive")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// Notifications reports whether live Telegram credentials are present.
func (c *Config) Notifications() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
