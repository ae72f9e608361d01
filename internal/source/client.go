// Package source fetches the ticket feed from the remote board endpoint.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kanban-board/internal/domain"
)

// Payload is the feed body.
type Payload struct {
	Tickets []domain.Ticket `json:"tickets"`
	Users   []domain.User   `json:"users"`
}

// Fetcher retrieves one snapshot of the feed.
type Fetcher interface {
	Fetch(ctx context.Context) (Payload, error)
}

// Client performs a single GET against the feed URL. It never retries.
type Client struct {
	url     string
	timeout time.Duration
}

// NewClient returns a client for url. A zero timeout leaves the call bounded
// only by the caller's context deadline.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, timeout: timeout}
}

// URL returns the endpoint the client reads from.
func (c *Client) URL() string {
	return c.url
}

func (c *Client) Fetch(ctx context.Context) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}

	agent := fiber.Get(c.url)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if timeout := c.effectiveTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return Payload{}, fmt.Errorf("get %s: %w", c.url, errs[0])
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return Payload{}, fmt.Errorf("get %s: unexpected status %d", c.url, code)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Payload{}, fmt.Errorf("decode feed: %w", err)
	}
	return payload, nil
}

func (c *Client) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
