package controller

import (
	"time"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

// demoEvents builds the fixed demonstration dataset shown instead of an
// empty grid while the connection is misconfigured. Slots are anchored to
// the current day so they are always visible in the default week view.
func demoEvents(now time.Time) []calendar.Event {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	at := func(dayOffset, hour, minute int) time.Time {
		return day.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	return []calendar.Event{
		{ID: "demo-1", Title: "פגישת היכרות (דוגמה)", Start: at(0, 10, 0), End: at(0, 11, 0)},
		{ID: "demo-2", Title: "שיחת מעקב (דוגמה)", Start: at(0, 13, 30), End: at(0, 14, 0)},
		{ID: "demo-3", Title: "פגישת ייעוץ (דוגמה)", Start: at(1, 9, 0), End: at(1, 10, 30)},
	}
}
