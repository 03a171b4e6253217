// Package watcher runs the repeating poll cycles that turn feed posts into
// notifications.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"bsky_watcher/internal/bsky"
	"bsky_watcher/internal/model"
	"bsky_watcher/internal/notify"
	"bsky_watcher/internal/seen"
)

// MatchFunc decides whether a post is actionable and, if so, composes the
// notification message for it. Implementations must be pure and total over
// arbitrary text.
type MatchFunc func(post model.Post) (message string, ok bool)

// Watcher polls one feed account on a fixed interval. Two Watchers (alerts
// and lineups) run concurrently, sharing the seen store.
type Watcher struct {
	name     string
	source   bsky.Source
	actor    string
	limit    int
	match    MatchFunc
	store    seen.Store
	sink     notify.Sink
	log      *slog.Logger
	interval time.Duration
}

// New creates a Watcher for one account.
func New(name string, source bsky.Source, actor string, limit int, match MatchFunc,
	store seen.Store, sink notify.Sink, log *slog.Logger, interval time.Duration) *Watcher {
	return &Watcher{
		name:     name,
		source:   source,
		actor:    actor,
		limit:    limit,
		match:    match,
		store:    store,
		sink:     sink,
		log:      log,
		interval: interval,
	}
}

// Run polls immediately, then re-arms the interval after each cycle completes
// regardless of its duration or outcome, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		w.PollOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.interval):
		}
	}
}

// PollOnce fetches one batch and dispatches at most one notification: the
// first post, in delivery order, that matches and has not been seen. Later
// matches in the same batch are left for the next cycle, throttling bursts to
// one message per interval. No failure escapes the cycle boundary.
func (w *Watcher) PollOnce(ctx context.Context) (dispatched bool) {
	posts, err := w.source.GetRecentPosts(ctx, w.actor, w.limit)
	if err != nil {
		w.log.Error("fetch feed", "watcher", w.name, "actor", w.actor, "error", err)
		return false
	}

	for _, post := range posts {
		message, ok := w.match(post)
		if !ok {
			continue
		}
		if w.store.Contains(post.ID) {
			continue
		}

		// Record before dispatch; a persistence failure is surfaced in the
		// log but does not abort the cycle in progress.
		if err := w.store.Record(post.ID); err != nil {
			w.log.Error("record seen post", "watcher", w.name, "id", post.ID, "error", err)
		}

		if err := w.sink.Send(ctx, message); err != nil {
			w.log.Error("send notification", "watcher", w.name, "id", post.ID, "error", err)
			return false
		}

		w.log.Info("dispatched notification", "watcher", w.name, "id", post.ID)
		return true
	}
	return false
}
