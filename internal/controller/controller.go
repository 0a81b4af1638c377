// Package controller holds the calendar's current date, view, and event
// state, and runs refreshes against the backend. It is the only mutable
// state in the daemon; every HTTP handler goes through it.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lilachbitton/newcalander/internal/calendar"
	"github.com/lilachbitton/newcalander/internal/grid"
	"github.com/lilachbitton/newcalander/internal/state"
)

// Phase is the controller's lifecycle state.
type Phase string

const (
	PhaseUnconfigured Phase = "unconfigured"
	PhaseLoading      Phase = "loading"
	PhaseReady        Phase = "ready"
	PhaseError        Phase = "error"
)

// ErrIncompleteConfig rejects settings with any empty field.
var ErrIncompleteConfig = errors.New("connection settings incomplete")

// Fetcher runs one backend round trip. The result's error field is already
// classified for display.
type Fetcher func(ctx context.Context, cfg calendar.Config) calendar.FetchResult

// Snapshot is a point-in-time copy of the controller state, safe to hand
// to handlers without further locking.
type Snapshot struct {
	Phase   Phase            `json:"phase"`
	View    calendar.View    `json:"view"`
	Date    time.Time        `json:"date"`
	Events  []calendar.Event `json:"events"`
	Message string           `json:"error,omitempty"`
}

// Options tune controller construction.
type Options struct {
	InitialView  calendar.View
	DemoFallback bool

	// SavePath, when set, persists settings passed to SaveConfig.
	SavePath string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

type Controller struct {
	fetch        Fetcher
	demoFallback bool
	savePath     string
	now          func() time.Time
	logger       *slog.Logger

	mu      sync.Mutex
	cfg     calendar.Config
	view    calendar.View
	date    time.Time
	events  []calendar.Event
	phase   Phase
	message string

	// seq tags each issued refresh; a completion whose tag is no longer
	// current is discarded so the last *issued* request wins, not the
	// last response to land.
	seq uint64
}

// New builds a controller around the given fetcher and initial settings.
func New(fetch Fetcher, cfg calendar.Config, opts Options) *Controller {
	view := opts.InitialView
	if _, ok := calendar.ParseView(string(view)); !ok {
		view = calendar.ViewWeek
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	phase := PhaseUnconfigured
	if cfg.Complete() {
		phase = PhaseReady
	}

	return &Controller{
		fetch:        fetch,
		demoFallback: opts.DemoFallback,
		savePath:     opts.SavePath,
		now:          now,
		logger:       logger,
		cfg:          cfg,
		view:         view,
		date:         now(),
		phase:        phase,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SaveConfig persists new connection settings when a save path is
// configured, then installs them and clears any previous error. A failed
// persist leaves the previous settings in effect, so a rejected save never
// changes which backend is queried.
func (c *Controller) SaveConfig(cfg calendar.Config) error {
	if !cfg.Complete() {
		return ErrIncompleteConfig
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.savePath != "" {
		if err := state.SaveConnection(c.savePath, cfg); err != nil {
			return err
		}
	}

	c.cfg = cfg
	c.message = ""
	if c.phase == PhaseUnconfigured || c.phase == PhaseError {
		c.phase = PhaseReady
	}
	return nil
}

// Refresh performs one fetch and applies the result, unless a newer
// refresh was issued while this one was in flight.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	c.mu.Lock()
	if !c.cfg.Complete() {
		c.phase = PhaseUnconfigured
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}

	c.seq++
	issued := c.seq
	c.phase = PhaseLoading
	cfg := c.cfg
	c.mu.Unlock()

	result := c.fetch(ctx, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if issued != c.seq {
		c.logger.Debug("discarding stale refresh result", "issued", issued, "latest", c.seq)
		return c.snapshotLocked()
	}

	if result.Err != "" {
		c.phase = PhaseError
		c.message = result.Err
		// An errored fetch never leaves a partial real result behind.
		c.events = nil
		if c.demoFallback {
			c.events = demoEvents(c.now())
		}
	} else {
		c.phase = PhaseReady
		c.message = ""
		c.events = result.Events
	}
	return c.snapshotLocked()
}

// Navigate moves the reference date one step in the given direction using
// the active view's step size.
func (c *Controller) Navigate(direction int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = grid.Advance(c.date, c.view, direction)
	return c.snapshotLocked()
}

// Today jumps the reference date back to the current moment.
func (c *Controller) Today() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = c.now()
	return c.snapshotLocked()
}

// ChangeView switches granularity without moving the reference date.
func (c *Controller) ChangeView(view calendar.View) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := calendar.ParseView(string(view)); ok {
		c.view = view
	}
	return c.snapshotLocked()
}

// Configured reports whether a complete connection is installed.
func (c *Controller) Configured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Complete()
}

func (c *Controller) snapshotLocked() Snapshot {
	events := make([]calendar.Event, len(c.events))
	copy(events, c.events)
	return Snapshot{
		Phase:   c.phase,
		View:    c.view,
		Date:    c.date,
		Events:  events,
		Message: c.message,
	}
}
