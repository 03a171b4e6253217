package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Discord posts messages to a Discord webhook as {"content": message}.
type Discord struct {
	client     HTTPClient
	webhookURL string
	timeout    time.Duration
}

// NewDiscord creates a Discord sink. A missing webhook URL is a configuration
// error reported here rather than on every send.
func NewDiscord(client HTTPClient, webhookURL string) (*Discord, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("discord webhook URL is not configured")
	}
	return &Discord{
		client:     client,
		webhookURL: webhookURL,
		timeout:    15 * time.Second,
	}, nil
}

// Send posts the message to the webhook.
func (d *Discord) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("marshal webhook body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
