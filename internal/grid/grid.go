// Package grid computes day/week/month buckets and per-event geometry for
// the time-grid views. Every function is pure; one layout unit equals one
// minute of clock time.
package grid

import (
	"time"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

const (
	// HourRows is the number of fixed hour rows in day and week views.
	HourRows = 24

	// UnitsPerHour is the vertical extent of one hour row.
	UnitsPerHour = 60

	// DayExtentFloor is the minimum rendered extent of an event in day
	// view, so very short slots remain visible and clickable.
	DayExtentFloor = 30

	// WeekExtentFloor is the same floor for the narrower week columns.
	WeekExtentFloor = 20
)

// Bucket describes the date range and grid shape for one view of the
// calendar around a reference date.
type Bucket struct {
	RangeStart time.Time `json:"rangeStart"`
	RangeEnd   time.Time `json:"rangeEnd"`

	// Days holds the midnight of every day cell, in order. Day view has
	// one entry, week view seven, month view one per day of the month.
	Days []time.Time `json:"days"`

	// LeadingEmpty is the number of empty pad cells before the first day
	// cell. Only month view pads; the value is the weekday index of the
	// first of the month (0 = Sunday).
	LeadingEmpty int `json:"leadingEmpty"`

	// HourRows is 24 for day and week views and 0 for month view.
	HourRows int `json:"hourRows"`
}

// Placement is the vertical geometry of one event inside a day column.
type Placement struct {
	// TopOffset is minutes since midnight of the event start.
	TopOffset int `json:"top"`

	// Extent is the rendered height in layout units, floored per view.
	Extent int `json:"extent"`
}

// BucketForView computes the visible range and cell layout for the given
// reference date and granularity.
func BucketForView(ref time.Time, view calendar.View) Bucket {
	switch view {
	case calendar.ViewWeek:
		start := StartOfWeek(ref)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = start.AddDate(0, 0, i)
		}
		return Bucket{
			RangeStart: start,
			RangeEnd:   endOfDay(days[6]),
			Days:       days,
			HourRows:   HourRows,
		}
	case calendar.ViewMonth:
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		last := first.AddDate(0, 1, -1)
		days := make([]time.Time, 0, last.Day())
		for d := 1; d <= last.Day(); d++ {
			days = append(days, time.Date(ref.Year(), ref.Month(), d, 0, 0, 0, 0, ref.Location()))
		}
		return Bucket{
			RangeStart:   first,
			RangeEnd:     endOfDay(last),
			Days:         days,
			LeadingEmpty: int(first.Weekday()),
		}
	default:
		start := startOfDay(ref)
		return Bucket{
			RangeStart: start,
			RangeEnd:   endOfDay(ref),
			Days:       []time.Time{start},
			HourRows:   HourRows,
		}
	}
}

// PlaceEvent computes the vertical geometry of an event within its day
// column. Month view has no per-minute geometry; callers only bucket by day.
func PlaceEvent(ev calendar.Event, view calendar.View) Placement {
	top := ev.Start.Hour()*UnitsPerHour + ev.Start.Minute()
	extent := int(ev.End.Sub(ev.Start).Minutes())

	floor := DayExtentFloor
	if view == calendar.ViewWeek {
		floor = WeekExtentFloor
	}
	if extent < floor {
		extent = floor
	}
	return Placement{TopOffset: top, Extent: extent}
}

// EventsForDay keeps the events whose start falls on the given calendar
// day. Matching is exact day equality, not range overlap, so an event
// spanning midnight appears only on its start day.
func EventsForDay(events []calendar.Event, day time.Time) []calendar.Event {
	if len(events) == 0 {
		return nil
	}

	matched := make([]calendar.Event, 0, len(events))
	for _, ev := range events {
		if SameDay(ev.Start, day) {
			matched = append(matched, ev)
		}
	}
	return matched
}

// Advance moves the reference date one navigation step in the given
// direction (+1 forward, -1 backward). Steps are symmetric: day moves one
// calendar day, week seven days, month one calendar month.
func Advance(ref time.Time, view calendar.View, direction int) time.Time {
	if direction > 0 {
		direction = 1
	} else if direction < 0 {
		direction = -1
	} else {
		return ref
	}

	switch view {
	case calendar.ViewWeek:
		return ref.AddDate(0, 0, 7*direction)
	case calendar.ViewMonth:
		return ref.AddDate(0, direction, 0)
	default:
		return ref.AddDate(0, 0, direction)
	}
}

// StartOfWeek returns midnight of the most recent Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
