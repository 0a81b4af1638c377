package web

import (
	"net/http"

	ics "github.com/arran4/golang-ical"
)

// handleEventsICS exports the current event set as an iCalendar feed, so
// the fetched slots can be subscribed to from a regular calendar client.
func (s *Server) handleEventsICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := s.ctrl.Snapshot()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//origamicald//calendar//HE")

	for _, ev := range snap.Events {
		vevent := cal.AddEvent(ev.ID)
		vevent.SetSummary(ev.Title)
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.SetDtStampTime(ev.Start)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		s.logger.Error("write ics response", "err", err)
	}
}
