// Package notify delivers finished alert messages to their destination.
package notify

import (
	"context"
	"fmt"
	"io"
)

// Sink accepts a finished message string.
type Sink interface {
	Send(ctx context.Context, message string) error
}

// Console writes messages to a writer (stdout in practice). It is the sink
// for every non-production mode.
type Console struct {
	w io.Writer
}

// NewConsole creates a Console sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Send writes the message followed by a newline.
func (c *Console) Send(_ context.Context, message string) error {
	if _, err := fmt.Fprintln(c.w, message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
