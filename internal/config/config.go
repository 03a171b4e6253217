// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Seen-store backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Notification channel names.
const (
	ChannelDiscord  = "discord"
	ChannelTelegram = "telegram"
)

// Config holds the application configuration.
type Config struct {
	Environment string
	LogLevel    string

	BskyService     string
	BskyIdentifier  string
	BskyAppPassword string

	AlertsActor    string
	AlertsLimit    int
	AlertsInterval time.Duration
	LineupActor    string
	LineupLimit    int
	LineupInterval time.Duration

	NotifyChannel     string
	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    int64

	SeenBackend   string
	SeenPostsPath string
	SeenDBPath    string
	SeenRetention int

	LexiconPath      string
	GamesFilePath    string
	GamesRefreshCron string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "local"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		BskyService:     getEnv("BSKY_SERVICE", "https://bsky.social"),
		BskyIdentifier:  os.Getenv("BSKY_IDENTIFIER"),
		BskyAppPassword: os.Getenv("BSKY_APP_PASSWORD"),

		AlertsActor:    getEnv("ALERTS_ACTOR", "fantasymlbnews.bsky.social"),
		AlertsLimit:    getEnvAsInt("ALERTS_LIMIT", 20),
		AlertsInterval: getEnvAsDuration("ALERTS_POLL_INTERVAL", 5*time.Minute),
		LineupActor:    getEnv("LINEUP_ACTOR", "lineupbot.bsky.social"),
		LineupLimit:    getEnvAsInt("LINEUP_LIMIT", 10),
		LineupInterval: getEnvAsDuration("LINEUP_POLL_INTERVAL", 1*time.Minute),

		NotifyChannel:     getEnv("NOTIFY_CHANNEL", ChannelDiscord),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),

		SeenBackend:   getEnv("SEEN_BACKEND", BackendFile),
		SeenPostsPath: getEnv("SEEN_POSTS_FILE", "./seen-posts.json"),
		SeenDBPath:    getEnv("SEEN_DB_PATH", "./data/seen.db"),
		SeenRetention: getEnvAsInt("SEEN_RETENTION", 50),

		LexiconPath:      os.Getenv("LEXICON_PATH"),
		GamesFilePath:    getEnv("MLB_GAMES_FILE", "./mlb-games.json"),
		GamesRefreshCron: getEnv("GAMES_REFRESH_CRON", "0 8 * * *"),
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = chatID
	}

	switch cfg.SeenBackend {
	case BackendFile, BackendSQLite:
	default:
		return nil, fmt.Errorf("invalid SEEN_BACKEND %q (want %q or %q)", cfg.SeenBackend, BackendFile, BackendSQLite)
	}

	if cfg.SeenRetention < 1 {
		return nil, fmt.Errorf("SEEN_RETENTION must be at least 1, got %d", cfg.SeenRetention)
	}

	return cfg, nil
}

// IsProduction reports whether notifications go to the real channel instead
// of stdout.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasCredentials reports whether an app password is configured for the
// authenticated feed API. Without one the watcher falls back to the public
// RSS feed.
func (c *Config) HasCredentials() bool {
	return c.BskyIdentifier != "" && c.BskyAppPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
