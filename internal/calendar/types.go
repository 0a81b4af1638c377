package calendar

import (
	"strings"
	"time"
)

// View selects the calendar granularity. It determines bucket width and
// how far a single navigation step moves the reference date.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView maps a user-supplied view name onto a known granularity.
func ParseView(value string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(value))) {
	case ViewDay:
		return ViewDay, true
	case ViewWeek:
		return ViewWeek, true
	case ViewMonth:
		return ViewMonth, true
	default:
		return "", false
	}
}

// Event is one appointment slot normalized for rendering. Events are
// immutable once mapped and are replaced wholesale on every refresh.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DisplayHint string    `json:"displayHint,omitempty"`

	// Source carries the originating backend record as an opaque
	// string-to-scalar payload. Downstream code must not depend on
	// backend-specific keys.
	Source map[string]any `json:"-"`
}

// FetchResult is the sole contract the controller consumes after a refresh.
// When Err is set the events list is a fallback (empty or a fixed
// demonstration set), never a partial real result.
type FetchResult struct {
	Events []Event
	Err    string
}

// Config holds the connection settings for the scheduling backend. The
// values are opaque strings; only presence is validated here.
type Config struct {
	BaseURL      string `json:"baseUrl"`
	CollectionID string `json:"collectionId"`
	APIKey       string `json:"apiKey"`
}

// Complete reports whether every connection field is populated.
func (c Config) Complete() bool {
	return strings.TrimSpace(c.BaseURL) != "" &&
		strings.TrimSpace(c.CollectionID) != "" &&
		strings.TrimSpace(c.APIKey) != ""
}
