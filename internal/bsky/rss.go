package bsky

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"bsky_watcher/internal/model"
)

// DefaultAppHost serves the public per-profile RSS feeds.
const DefaultAppHost = "https://bsky.app"

// RSSSource reads an account's public RSS feed. It needs no credentials and
// is used when no app password is configured. The feed carries less detail
// than the XRPC API but the same post text and stable at:// GUIDs.
type RSSSource struct {
	client  HTTPClient
	host    string
	timeout time.Duration
}

// NewRSSSource creates an RSSSource against the given app host.
func NewRSSSource(client HTTPClient, host string) *RSSSource {
	if host == "" {
		host = DefaultAppHost
	}
	return &RSSSource{
		client:  client,
		host:    host,
		timeout: 30 * time.Second,
	}
}

// GetRecentPosts downloads and parses the actor's RSS feed. Feed items arrive
// most recent first; at most limit posts are returned.
func (s *RSSSource) GetRecentPosts(ctx context.Context, actor string, limit int) ([]model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.host+"/profile/"+actor+"/rss", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "bsky-watcher/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	posts := make([]model.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(posts) >= limit {
			break
		}
		post := model.Post{
			ID:      itemGUID(item),
			Author:  actor,
			RawText: item.Description,
		}
		if post.RawText == "" {
			post.RawText = item.Title
		}
		if item.PublishedParsed != nil {
			post.CreatedAt = *item.PublishedParsed
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// itemGUID returns the stable ID for a feed item: the at:// URI when present,
// a content hash otherwise.
func itemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}
