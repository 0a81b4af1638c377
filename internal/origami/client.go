package origami

import (
	"context"
	"log/slog"
	"time"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

// Client fetches and normalizes appointment slots for one configured
// backend. The zero value is not usable; construct with NewClient.
type Client struct {
	timeout time.Duration
	limit   int
	logger  *slog.Logger
}

// NewClient builds a slot client. A non-positive timeout falls back to
// DefaultTimeout; a non-positive or oversized limit falls back to PageLimit.
func NewClient(timeout time.Duration, limit int, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if limit <= 0 || limit > PageLimit {
		limit = PageLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{timeout: timeout, limit: limit, logger: logger}
}

// FetchSlots runs one search round trip and returns the normalized result.
// The returned error field is already classified for display; transport
// exceptions never escape this boundary.
func (c *Client) FetchSlots(ctx context.Context, cfg calendar.Config) calendar.FetchResult {
	env := Forward(ctx, ForwardRequest{
		BaseURL:      cfg.BaseURL,
		CollectionID: cfg.CollectionID,
		APIKey:       cfg.APIKey,
		Limit:        c.limit,
		Timeout:      c.timeout,
	})

	if kind := env.ErrorKind(); kind != "" {
		c.logger.Error("slot fetch failed", "kind", kind, "details", env.ErrorDetails())
		return calendar.FetchResult{Err: ClassifyError(env)}
	}

	// An application-level error arrives as a bare message inside a
	// 200 response, with neither record list present.
	if msg := env.BackendMessage(); msg != "" && !env.HasRecordList() {
		c.logger.Error("backend reported error", "message", msg)
		return calendar.FetchResult{Err: backendErrorPrefix + msg}
	}

	records := env.Records()
	events := MapToEvents(records)
	if dropped := len(records) - len(events); dropped > 0 {
		c.logger.Warn("dropped malformed records", "dropped", dropped, "kept", len(events))
	}
	return calendar.FetchResult{Events: events}
}
