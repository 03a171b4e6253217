package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var configEnvKeys = []string{
	"ENVIRONMENT", "LOG_LEVEL",
	"BSKY_SERVICE", "BSKY_IDENTIFIER", "BSKY_APP_PASSWORD",
	"ALERTS_ACTOR", "ALERTS_LIMIT", "ALERTS_POLL_INTERVAL",
	"LINEUP_ACTOR", "LINEUP_LIMIT", "LINEUP_POLL_INTERVAL",
	"NOTIFY_CHANNEL", "DISCORD_WEBHOOK_URL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	"SEEN_BACKEND", "SEEN_POSTS_FILE", "SEEN_DB_PATH", "SEEN_RETENTION",
	"LEXICON_PATH", "MLB_GAMES_FILE", "GAMES_REFRESH_CRON",
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: &Config{
				Environment:      "local",
				LogLevel:         "info",
				BskyService:      "https://bsky.social",
				AlertsActor:      "fantasymlbnews.bsky.social",
				AlertsLimit:      20,
				AlertsInterval:   5 * time.Minute,
				LineupActor:      "lineupbot.bsky.social",
				LineupLimit:      10,
				LineupInterval:   1 * time.Minute,
				NotifyChannel:    ChannelDiscord,
				SeenBackend:      BackendFile,
				SeenPostsPath:    "./seen-posts.json",
				SeenDBPath:       "./data/seen.db",
				SeenRetention:    50,
				GamesFilePath:    "./mlb-games.json",
				GamesRefreshCron: "0 8 * * *",
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"ENVIRONMENT":          "production",
				"LOG_LEVEL":            "debug",
				"BSKY_IDENTIFIER":      "watcher.bsky.social",
				"BSKY_APP_PASSWORD":    "app-pass",
				"ALERTS_POLL_INTERVAL": "10m",
				"LINEUP_POLL_INTERVAL": "30s",
				"NOTIFY_CHANNEL":       "telegram",
				"TELEGRAM_BOT_TOKEN":   "tok",
				"TELEGRAM_CHAT_ID":     "-100123",
				"SEEN_BACKEND":         "sqlite",
				"SEEN_RETENTION":       "200",
			},
			want: &Config{
				Environment:      "production",
				LogLevel:         "debug",
				BskyService:      "https://bsky.social",
				BskyIdentifier:   "watcher.bsky.social",
				BskyAppPassword:  "app-pass",
				AlertsActor:      "fantasymlbnews.bsky.social",
				AlertsLimit:      20,
				AlertsInterval:   10 * time.Minute,
				LineupActor:      "lineupbot.bsky.social",
				LineupLimit:      10,
				LineupInterval:   30 * time.Second,
				NotifyChannel:    ChannelTelegram,
				TelegramBotToken: "tok",
				TelegramChatID:   -100123,
				SeenBackend:      BackendSQLite,
				SeenPostsPath:    "./seen-posts.json",
				SeenDBPath:       "./data/seen.db",
				SeenRetention:    200,
				GamesFilePath:    "./mlb-games.json",
				GamesRefreshCron: "0 8 * * *",
			},
		},
		{
			name:    "invalid chat id",
			env:     map[string]string{"TELEGRAM_CHAT_ID": "abc"},
			wantErr: true,
		},
		{
			name:    "invalid seen backend",
			env:     map[string]string{"SEEN_BACKEND": "redis"},
			wantErr: true,
		},
		{
			name:    "retention below one",
			env:     map[string]string{"SEEN_RETENTION": "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range configEnvKeys {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigHelpers(t *testing.T) {
	prod := &Config{Environment: "production"}
	if !prod.IsProduction() {
		t.Error("IsProduction() = false for production environment")
	}
	local := &Config{Environment: "local"}
	if local.IsProduction() {
		t.Error("IsProduction() = true for local environment")
	}

	withCreds := &Config{BskyIdentifier: "id", BskyAppPassword: "pw"}
	if !withCreds.HasCredentials() {
		t.Error("HasCredentials() = false with both values set")
	}
	missingPw := &Config{BskyIdentifier: "id"}
	if missingPw.HasCredentials() {
		t.Error("HasCredentials() = true with password missing")
	}
}
