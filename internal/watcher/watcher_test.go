package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"bsky_watcher/internal/classifier"
	"bsky_watcher/internal/lineup"
	"bsky_watcher/internal/model"
	"bsky_watcher/internal/seen"
)

type mockSource struct {
	posts []model.Post
	err   error
}

func (m *mockSource) GetRecentPosts(_ context.Context, _ string, _ int) ([]model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.posts, nil
}

type mockSink struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (m *mockSink) Send(_ context.Context, message string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockSink) getMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func newTestStore(t *testing.T) seen.Store {
	t.Helper()
	return seen.OpenFile(filepath.Join(t.TempDir(), "seen-posts.json"), 50)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alertBatch() []model.Post {
	return []model.Post{
		{ID: "cid-1", RawText: "Game Alert: rain delay at Wrigley"},
		{ID: "cid-2", RawText: "what a catch by Buxton!"},
		{ID: "cid-3", RawText: "Lineup Alert: Betts sits tonight"},
		{ID: "cid-4", RawText: "good seats still available"},
		{ID: "cid-5", RawText: "Game Alert: delay over, first pitch soon"},
	}
}

func TestPollOnceDispatchesFirstUnseenMatch(t *testing.T) {
	source := &mockSource{posts: alertBatch()}
	sink := &mockSink{}
	store := newTestStore(t)

	w := New("alerts", source, "alerts.test", 20,
		AlertMatcher(classifier.New(classifier.DefaultLexicon())),
		store, sink, discardLogger(), 0)

	if dispatched := w.PollOnce(context.Background()); !dispatched {
		t.Fatal("PollOnce() = false, want a dispatch")
	}

	msgs := sink.getMessages()
	if diff := cmp.Diff(1, len(msgs)); diff != "" {
		t.Fatalf("message count mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(msgs[0], "rain delay at Wrigley") {
		t.Errorf("dispatched message = %q, want the first matching post", msgs[0])
	}

	// The dispatched post is recorded, the later match in the same batch is
	// deliberately deferred to the next cycle.
	if !store.Contains("cid-1") {
		t.Error("Contains(cid-1) = false, want recorded")
	}
	if store.Contains("cid-3") {
		t.Error("Contains(cid-3) = true, want deferred to next cycle")
	}
}

func TestPollOnceDrainsBatchOneCycleAtATime(t *testing.T) {
	source := &mockSource{posts: alertBatch()}
	sink := &mockSink{}
	store := newTestStore(t)

	w := New("alerts", source, "alerts.test", 20,
		AlertMatcher(classifier.New(classifier.DefaultLexicon())),
		store, sink, discardLogger(), 0)

	ctx := context.Background()
	var dispatches int
	for i := 0; i < 5; i++ {
		if w.PollOnce(ctx) {
			dispatches++
		}
	}

	// Three matching posts, one per cycle, then nothing left.
	if diff := cmp.Diff(3, dispatches); diff != "" {
		t.Errorf("dispatch count mismatch (-want +got):\n%s", diff)
	}

	msgs := sink.getMessages()
	wantOrder := []string{"rain delay at Wrigley", "Betts sits tonight", "delay over, first pitch soon"}
	if len(msgs) != len(wantOrder) {
		t.Fatalf("message count = %d, want %d", len(msgs), len(wantOrder))
	}
	for i, fragment := range wantOrder {
		if !strings.Contains(msgs[i], fragment) {
			t.Errorf("msgs[%d] = %q, want it to contain %q", i, msgs[i], fragment)
		}
	}
}

func TestPollOnceSkipsSeenPosts(t *testing.T) {
	source := &mockSource{posts: alertBatch()}
	sink := &mockSink{}
	store := newTestStore(t)
	if err := store.Record("cid-1"); err != nil {
		t.Fatalf("record: %v", err)
	}

	w := New("alerts", source, "alerts.test", 20,
		AlertMatcher(classifier.New(classifier.DefaultLexicon())),
		store, sink, discardLogger(), 0)

	if dispatched := w.PollOnce(context.Background()); !dispatched {
		t.Fatal("PollOnce() = false, want a dispatch for the next unseen match")
	}

	msgs := sink.getMessages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Betts sits tonight") {
		t.Errorf("messages = %v, want only the cid-3 alert", msgs)
	}
}

func TestPollOnceFetchErrorAbortsCycle(t *testing.T) {
	source := &mockSource{err: errors.New("network down")}
	sink := &mockSink{}

	w := New("alerts", source, "alerts.test", 20,
		AlertMatcher(classifier.New(classifier.DefaultLexicon())),
		newTestStore(t), sink, discardLogger(), 0)

	if dispatched := w.PollOnce(context.Background()); dispatched {
		t.Error("PollOnce() = true on fetch error")
	}
	if msgs := sink.getMessages(); len(msgs) != 0 {
		t.Errorf("messages = %v, want none", msgs)
	}
}

func TestPollOnceSendErrorStillRecords(t *testing.T) {
	source := &mockSource{posts: alertBatch()}
	sink := &mockSink{err: errors.New("webhook down")}
	store := newTestStore(t)

	w := New("alerts", source, "alerts.test", 20,
		AlertMatcher(classifier.New(classifier.DefaultLexicon())),
		store, sink, discardLogger(), 0)

	if dispatched := w.PollOnce(context.Background()); dispatched {
		t.Error("PollOnce() = true on send error")
	}
	// The post was recorded before the send attempt; it will not be retried.
	if !store.Contains("cid-1") {
		t.Error("Contains(cid-1) = false, want recorded before dispatch")
	}
}

func TestPollOnceLineupFeed(t *testing.T) {
	// The lineup account posts non-lineup chatter too; only posts whose
	// header names a team should dispatch.
	source := &mockSource{posts: []model.Post{
		{ID: "cid-10", RawText: "Thanks for following along today!"},
		{ID: "cid-11", RawText: "NYY 6-30 vs. BOS\n1. Gleyber Torres, 2B\n2. Juan Soto, RF"},
	}}
	sink := &mockSink{}
	store := newTestStore(t)

	parser := lineup.NewParserAt(func() time.Time {
		return time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)
	})
	w := New("lineups", source, "lineupbot.test", 10,
		LineupMatcher(parser, nil), store, sink, discardLogger(), 0)

	if dispatched := w.PollOnce(context.Background()); !dispatched {
		t.Fatal("PollOnce() = false, want a lineup dispatch")
	}

	msgs := sink.getMessages()
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1", len(msgs))
	}
	for _, fragment := range []string{"⚾️ New Lineup:", "**Yankees**: 6/30", "1. Gleyber Torres, 2B", "Opponent: Red Sox"} {
		if !strings.Contains(msgs[0], fragment) {
			t.Errorf("message missing %q:\n%s", fragment, msgs[0])
		}
	}
	if store.Contains("cid-10") {
		t.Error("Contains(cid-10) = true, want non-lineup post left unrecorded")
	}
	if !store.Contains("cid-11") {
		t.Error("Contains(cid-11) = false, want recorded")
	}
}

func TestPollOnceNoMatches(t *testing.T) {
	source := &mockSource{posts: []model.Post{
		{ID: "cid-1", RawText: "beautiful evening for baseball"},
	}}
	sink := &mockSink{}

	w := New("alerts", source, "alerts.test", 20,
		AlertMatcher(classifier.New(classifier.DefaultLexicon())),
		newTestStore(t), sink, discardLogger(), 0)

	if dispatched := w.PollOnce(context.Background()); dispatched {
		t.Error("PollOnce() = true with no matching posts")
	}
}
