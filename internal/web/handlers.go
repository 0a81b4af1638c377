package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lilachbitton/newcalander/internal/calendar"
	"github.com/lilachbitton/newcalander/internal/controller"
	"github.com/lilachbitton/newcalander/internal/grid"
)

// handleEvents returns the controller snapshot: phase, active view and
// date, the normalized events of the last refresh, and any classified
// error message.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

// handleRefresh triggers one synchronous fetch and returns the resulting
// snapshot. Responses of refreshes superseded while in flight are
// discarded by the controller.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Refresh(r.Context()))
}

// handleNavigate moves the reference date. Body: {"direction": "next"} or
// "prev" or "today".
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch body.Direction {
	case "next":
		writeJSON(w, http.StatusOK, s.ctrl.Navigate(1))
	case "prev":
		writeJSON(w, http.StatusOK, s.ctrl.Navigate(-1))
	case "today":
		writeJSON(w, http.StatusOK, s.ctrl.Today())
	default:
		writeError(w, http.StatusBadRequest, "direction must be next, prev, or today")
	}
}

// handleView switches granularity. Body: {"view": "day"|"week"|"month"}.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, ok := calendar.ParseView(body.View)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown view")
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.ChangeView(view))
}

// handleConfig installs new connection settings and refreshes immediately,
// mirroring the settings-form save flow.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var cfg calendar.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.ctrl.SaveConfig(cfg); err != nil {
		if err == controller.ErrIncompleteConfig {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("persist connection settings", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}

	writeJSON(w, http.StatusOK, s.ctrl.Refresh(r.Context()))
}

// placedEvent is one event with its vertical geometry inside a day column.
// Month view buckets by day only; its events carry zero geometry.
type placedEvent struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Hint   string    `json:"displayHint,omitempty"`
	Top    int       `json:"top"`
	Extent int       `json:"extent"`
}

type gridColumn struct {
	Day    time.Time     `json:"day"`
	Events []placedEvent `json:"events"`
}

type gridResponse struct {
	View         calendar.View `json:"view"`
	Date         time.Time     `json:"date"`
	RangeStart   time.Time     `json:"rangeStart"`
	RangeEnd     time.Time     `json:"rangeEnd"`
	LeadingEmpty int           `json:"leadingEmpty"`
	HourRows     int           `json:"hourRows"`
	Columns      []gridColumn  `json:"columns"`
}

// handleGrid returns render-ready geometry for one view around one date.
// Query parameters view= and date= (YYYY-MM-DD) default to the
// controller's active state.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := s.ctrl.Snapshot()

	view := snap.View
	if value := r.URL.Query().Get("view"); value != "" {
		parsed, ok := calendar.ParseView(value)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown view")
			return
		}
		view = parsed
	}

	date := snap.Date
	if value := r.URL.Query().Get("date"); value != "" {
		parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	bucket := grid.BucketForView(date, view)
	columns := make([]gridColumn, 0, len(bucket.Days))
	for _, day := range bucket.Days {
		dayEvents := grid.EventsForDay(snap.Events, day)
		placed := make([]placedEvent, 0, len(dayEvents))
		for _, ev := range dayEvents {
			item := placedEvent{
				ID:    ev.ID,
				Title: ev.Title,
				Start: ev.Start,
				End:   ev.End,
				Hint:  ev.DisplayHint,
			}
			if view != calendar.ViewMonth {
				placement := grid.PlaceEvent(ev, view)
				item.Top = placement.TopOffset
				item.Extent = placement.Extent
			}
			placed = append(placed, item)
		}
		columns = append(columns, gridColumn{Day: day, Events: placed})
	}

	writeJSON(w, http.StatusOK, gridResponse{
		View:         view,
		Date:         date,
		RangeStart:   bucket.RangeStart,
		RangeEnd:     bucket.RangeEnd,
		LeadingEmpty: bucket.LeadingEmpty,
		HourRows:     bucket.HourRows,
		Columns:      columns,
	})
}
