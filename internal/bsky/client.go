// Package bsky fetches recent posts from Bluesky accounts, either through the
// authenticated XRPC API or, without credentials, through the public RSS feed.
package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"bsky_watcher/internal/model"
)

// DefaultService is the PDS endpoint used when none is configured.
const DefaultService = "https://bsky.social"

const maxBodyBytes = 5 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source is the feed abstraction the poll cycle consumes. Posts are returned
// most-recent-first, exactly as the upstream delivers them.
type Source interface {
	GetRecentPosts(ctx context.Context, actor string, limit int) ([]model.Post, error)
}

// Client talks to the Bluesky XRPC API. Login must be called before
// GetRecentPosts; an expired session is renewed transparently once per call.
type Client struct {
	client     HTTPClient
	service    string
	identifier string
	password   string
	timeout    time.Duration

	mu        sync.Mutex
	accessJwt string
}

// NewClient creates a Client against the given PDS service URL.
func NewClient(client HTTPClient, service, identifier, password string) *Client {
	if service == "" {
		service = DefaultService
	}
	return &Client{
		client:     client,
		service:    service,
		identifier: identifier,
		password:   password,
		timeout:    30 * time.Second,
	}
}

type sessionResponse struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
}

// Login creates a session with the identifier/app-password pair and stores
// the access token for subsequent feed calls.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"identifier": c.identifier,
		"password":   c.password,
	})
	if err != nil {
		return fmt.Errorf("marshal session request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.service+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var session sessionResponse
	if err := c.do(req, &session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	c.mu.Lock()
	c.accessJwt = session.AccessJwt
	c.mu.Unlock()
	return nil
}

// feedResponse mirrors the slice of app.bsky.feed.getAuthorFeed we consume.
type feedResponse struct {
	Feed []struct {
		Post struct {
			Cid    string `json:"cid"`
			Author struct {
				Handle string `json:"handle"`
			} `json:"author"`
			Record struct {
				Text      string    `json:"text"`
				CreatedAt time.Time `json:"createdAt"`
			} `json:"record"`
		} `json:"post"`
	} `json:"feed"`
}

// GetRecentPosts returns the actor's latest posts, most recent first. The
// post CID serves as the stable content-addressed ID. A missing or expired
// session is renewed in place, so a failed startup login heals on a later
// cycle instead of wedging the process.
func (c *Client) GetRecentPosts(ctx context.Context, actor string, limit int) ([]model.Post, error) {
	c.mu.Lock()
	loggedIn := c.accessJwt != ""
	c.mu.Unlock()
	if !loggedIn {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	posts, err := c.getAuthorFeed(ctx, actor, limit)
	if errors.Is(err, errUnauthorized) {
		// Session expired; renew once and retry.
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		posts, err = c.getAuthorFeed(ctx, actor, limit)
	}
	return posts, err
}

var errUnauthorized = errors.New("unauthorized")

func (c *Client) getAuthorFeed(ctx context.Context, actor string, limit int) ([]model.Post, error) {
	c.mu.Lock()
	token := c.accessJwt
	c.mu.Unlock()
	if token == "" {
		return nil, fmt.Errorf("get author feed: not logged in")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("actor", actor)
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.service+"/xrpc/app.bsky.feed.getAuthorFeed?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var feed feedResponse
	if err := c.do(req, &feed); err != nil {
		return nil, fmt.Errorf("get author feed: %w", err)
	}

	posts := make([]model.Post, 0, len(feed.Feed))
	for _, item := range feed.Feed {
		posts = append(posts, model.Post{
			ID:        item.Post.Cid,
			Author:    item.Post.Author.Handle,
			RawText:   item.Post.Record.Text,
			CreatedAt: item.Post.Record.CreatedAt,
		})
	}
	return posts, nil
}

// ResolveHandle resolves a handle (e.g. "lineupbot.bsky.social") to its DID.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("handle", handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.service+"/xrpc/com.atproto.identity.resolveHandle?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	var out struct {
		Did string `json:"did"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("resolve handle: %w", err)
	}
	return out.Did, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return errUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
