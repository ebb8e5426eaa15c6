package route

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"calendar/src-server/model"
	"calendar/src-server/utils"

	"github.com/emersion/go-ical"
)

const icalProductID = "-//calendar//events feed//EN"

func toIcalEvent(e *model.Event, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID)
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now)
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End())
	ve.Props.SetDateTime(ical.PropCreated, time.UnixMilli(e.CreatedAt).UTC())
	if e.UpdatedAt != 0 {
		ve.Props.SetDateTime(ical.PropLastModified, time.UnixMilli(e.UpdatedAt).UTC())
	}
	ve.Props.SetText(ical.PropCategories, e.Category)
	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	return ve
}

// Ical exposes every event as a subscribable iCalendar feed.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /api/events.ics", Instrument(as, "/api/events.ics",
		func(w http.ResponseWriter, r *http.Request) {
			startTimer := time.Now()
			eventModels, err := model.ListEvents(r.Context(), as.BunDB)
			if err != nil {
				writeModelError(w, r, err)
				return
			}
			as.MetricChans.ObserveDatabaseRead(startTimer)

			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

			// the encoder rejects a VCALENDAR without components
			if len(eventModels) == 0 {
				w.WriteHeader(http.StatusOK)
				if _, err := io.WriteString(w, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:"+icalProductID+"\r\nEND:VCALENDAR\r\n"); err != nil {
					slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
				}
				return
			}

			cal := ical.NewCalendar()
			cal.Props.SetText(ical.PropVersion, "2.0")
			cal.Props.SetText(ical.PropProductID, icalProductID)
			now := time.Now().UTC()
			for i := range eventModels {
				cal.Children = append(cal.Children, toIcalEvent(&eventModels[i], now))
			}

			// encode fully before writing so a failure can still be a 500
			var buf bytes.Buffer
			if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
				writeMessage(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(buf.Bytes()); err != nil {
				slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
			}
		}))
}
