package origami

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

// Dynamic field keys the backend uses for the slot boundaries. The schema
// is collection-specific; these are the keys of the appointment collection.
const (
	FieldStart = "fld_1544"
	FieldEnd   = "fld_1545"

	fieldID    = "_id"
	fieldTitle = "title"
)

// defaultDisplayHint is the style tag attached to every mapped event.
const defaultDisplayHint = "bg-blue-100 text-blue-700 border-blue-200"

// timestampLayouts are tried in order against the backend's ISO-ish
// start/end strings. Values without an explicit zone are taken in the
// host's local time.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// MapToEvents converts raw backend records into calendar events. Records
// missing either boundary field, or whose boundaries fail to parse, are
// dropped silently. Input order is preserved; chronological ordering is a
// presentation concern.
func MapToEvents(records []RawRecord) []calendar.Event {
	if len(records) == 0 {
		return nil
	}

	events := make([]calendar.Event, 0, len(records))
	for _, record := range records {
		startRaw := record.stringField(FieldStart)
		endRaw := record.stringField(FieldEnd)
		if startRaw == "" || endRaw == "" {
			continue
		}

		start, ok := ParseTimestamp(startRaw)
		if !ok {
			continue
		}
		end, ok := ParseTimestamp(endRaw)
		if !ok {
			continue
		}

		id := record.stringField(fieldID)
		if id == "" {
			// Identifiers only key a single render; they are never
			// persisted or compared across fetches.
			id = uuid.NewString()
		}

		title := record.stringField(fieldTitle)
		if title == "" {
			title = defaultTitle
		}

		events = append(events, calendar.Event{
			ID:          id,
			Title:       title,
			Start:       start,
			End:         end,
			DisplayHint: defaultDisplayHint,
			Source:      record.clone(),
		})
	}
	return events
}

// ParseTimestamp parses one backend timestamp string, reporting failure
// instead of returning a zero value the caller could mistake for data.
func ParseTimestamp(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (r RawRecord) stringField(key string) string {
	value, ok := r[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func (r RawRecord) clone() map[string]any {
	copied := make(map[string]any, len(r))
	for key, value := range r {
		copied[key] = value
	}
	return copied
}
