// Package mlb maintains a daily snapshot of the MLB scoreboard, used to
// enrich lineup notifications with venue and first-pitch time.
package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"bsky_watcher/internal/lineup"
	"bsky_watcher/internal/model"
)

// DefaultBaseURL is the scoreboard transform endpoint.
const DefaultBaseURL = "https://bdfed.stitch.mlbinfra.com/bdfed/transform-milb-scoreboard"

const maxBodyBytes = 10 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches the day's games from the scoreboard API.
type Client struct {
	client  HTTPClient
	baseURL string
	timeout time.Duration
}

// NewClient creates a scoreboard Client.
func NewClient(client HTTPClient, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:  client,
		baseURL: baseURL,
		timeout: 30 * time.Second,
	}
}

// scoreboardResponse mirrors the slice of the transform payload we consume.
type scoreboardResponse struct {
	Dates []struct {
		Games []struct {
			GamePk   int64  `json:"gamePk"`
			GameDate string `json:"gameDate"`
			Teams    struct {
				Home struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"home"`
				Away struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"away"`
			} `json:"teams"`
			Venue struct {
				Name     string `json:"name"`
				Location struct {
					City        string `json:"city"`
					StateAbbrev string `json:"stateAbbrev"`
				} `json:"location"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

// FetchGames returns the games scheduled on the given date.
func (c *Client) FetchGames(ctx context.Context, date time.Time) ([]model.Game, error) {
	day := date.Format("2006-01-02")

	q := url.Values{}
	q.Set("stitch_env", "prod")
	q.Set("sortTemplate", "4")
	q.Set("sportId", "1")
	q.Set("startDate", day)
	q.Set("endDate", day)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
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

	var sb scoreboardResponse
	if err := json.Unmarshal(body, &sb); err != nil {
		return nil, fmt.Errorf("decode scoreboard: %w", err)
	}

	var games []model.Game
	for _, d := range sb.Dates {
		for _, g := range d.Games {
			game := model.Game{
				GamePk:   g.GamePk,
				HomeTeam: g.Teams.Home.Team.Name,
				AwayTeam: g.Teams.Away.Team.Name,
				Venue:    g.Venue.Name,
				City:     g.Venue.Location.City,
				State:    g.Venue.Location.StateAbbrev,
			}
			if zoned, err := lineup.FormatGameTimeISO(g.GameDate); err == nil {
				game.GameTime = zoned
			}
			games = append(games, game)
		}
	}
	return games, nil
}

// Cache holds the current day's games in memory and mirrors them to a JSON
// file. Refresh failures leave the previous snapshot in place.
type Cache struct {
	mu     sync.RWMutex
	client *Client
	path   string
	games  []model.Game
}

// NewCache creates a Cache backed by the given client, persisting snapshots
// to path (empty path disables the file mirror).
func NewCache(client *Client, path string) *Cache {
	return &Cache{client: client, path: path}
}

// Refresh fetches today's games and replaces the snapshot.
func (c *Cache) Refresh(ctx context.Context) error {
	games, err := c.client.FetchGames(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("fetch games: %w", err)
	}

	c.mu.Lock()
	c.games = games
	c.mu.Unlock()

	if c.path != "" {
		data, err := json.MarshalIndent(games, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal games: %w", err)
		}
		if err := os.WriteFile(c.path, data, 0o644); err != nil {
			return fmt.Errorf("write games file: %w", err)
		}
	}
	return nil
}

// GameFor returns the game in which the named club plays today, matched by
// substring against either side's full team name.
func (c *Cache) GameFor(team string) (model.Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	needle := strings.ToLower(team)
	for _, g := range c.games {
		if strings.Contains(strings.ToLower(g.HomeTeam), needle) ||
			strings.Contains(strings.ToLower(g.AwayTeam), needle) {
			return g, true
		}
	}
	return model.Game{}, false
}
