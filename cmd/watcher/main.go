package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"bsky_watcher/internal/bsky"
	"bsky_watcher/internal/classifier"
	"bsky_watcher/internal/config"
	"bsky_watcher/internal/lineup"
	"bsky_watcher/internal/mlb"
	"bsky_watcher/internal/notify"
	"bsky_watcher/internal/seen"
	"bsky_watcher/internal/watcher"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	lexicon, err := classifier.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		log.Error("load lexicon", "path", cfg.LexiconPath, "error", err)
		os.Exit(1)
	}

	store, err := openSeenStore(cfg)
	if err != nil {
		log.Error("open seen store", "backend", cfg.SeenBackend, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{}

	var source bsky.Source
	if cfg.HasCredentials() {
		client := bsky.NewClient(httpClient, cfg.BskyService, cfg.BskyIdentifier, cfg.BskyAppPassword)
		if err := client.Login(ctx); err != nil {
			// Not fatal: the client retries the login on each poll cycle.
			log.Error("bluesky login", "error", err)
		}
		source = client
	} else {
		log.Info("no bluesky credentials, using public RSS feeds")
		source = bsky.NewRSSSource(httpClient, "")
	}

	sink := newSink(cfg, httpClient, log)

	games := mlb.NewCache(mlb.NewClient(httpClient, ""), cfg.GamesFilePath)
	if err := games.Refresh(ctx); err != nil {
		log.Error("refresh games", "error", err)
	}

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.GamesRefreshCron, func() {
		if err := games.Refresh(ctx); err != nil {
			log.Error("refresh games", "error", err)
		}
	}); err != nil {
		log.Error("schedule games refresh", "cron", cfg.GamesRefreshCron, "error", err)
	} else {
		sched.Start()
		defer sched.Stop()
	}

	alerts := watcher.New("alerts", source, cfg.AlertsActor, cfg.AlertsLimit,
		watcher.AlertMatcher(classifier.New(lexicon)), store, sink, log, cfg.AlertsInterval)
	lineups := watcher.New("lineups", source, cfg.LineupActor, cfg.LineupLimit,
		watcher.LineupMatcher(lineup.NewParser(), games), store, sink, log, cfg.LineupInterval)

	log.Info("starting watcher",
		"alerts_actor", cfg.AlertsActor, "lineup_actor", cfg.LineupActor,
		"production", cfg.IsProduction())

	go alerts.Run(ctx)
	lineups.Run(ctx)

	log.Info("watcher stopped")
}

func openSeenStore(cfg *config.Config) (seen.Store, error) {
	if cfg.SeenBackend == config.BackendSQLite {
		if dir := filepath.Dir(cfg.SeenDBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, err
			}
		}
		return seen.OpenSQLite(cfg.SeenDBPath, cfg.SeenRetention)
	}
	return seen.OpenFile(cfg.SeenPostsPath, cfg.SeenRetention), nil
}

// newSink picks the notification sink: stdout outside production, otherwise
// the configured channel. A misconfigured channel is reported and degraded to
// stdout rather than crashing.
func newSink(cfg *config.Config, httpClient *http.Client, log *slog.Logger) notify.Sink {
	if !cfg.IsProduction() {
		return notify.NewConsole(os.Stdout)
	}

	switch cfg.NotifyChannel {
	case config.ChannelTelegram:
		sink, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Error("create telegram sink", "error", err)
			return notify.NewConsole(os.Stdout)
		}
		return sink
	case config.ChannelDiscord:
		sink, err := notify.NewDiscord(httpClient, cfg.DiscordWebhookURL)
		if err != nil {
			log.Error("create discord sink", "error", err)
			return notify.NewConsole(os.Stdout)
		}
		return sink
	default:
		log.Error("unknown notify channel", "channel", cfg.NotifyChannel)
		return notify.NewConsole(os.Stdout)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
