package route

import (
	"encoding/json"
	"net/http"
	"time"

	"calendar/src-server/model"
	"calendar/src-server/utils"
)

// same limit as express.json()
const maxRequestBodyBytes = 100 << 10

func decodeEventFields(w http.ResponseWriter, r *http.Request) (model.EventFields, bool) {
	var reqBody model.EventFields
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return reqBody, false
	}
	return reqBody, true
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// list all events, sorted by start
	muxer.HandleFunc("GET /api/events", Instrument(as, "/api/events",
		func(w http.ResponseWriter, r *http.Request) {
			startTimer := time.Now()
			eventModels, err := model.ListEvents(r.Context(), as.BunDB)
			if err != nil {
				writeModelError(w, r, err)
				return
			}
			as.MetricChans.ObserveDatabaseRead(startTimer)

			respBody := make([]EventRespBody, 0, len(eventModels))
			for i := range eventModels {
				respBody = append(respBody, newEventRespBody(&eventModels[i]))
			}
			writeJSON(w, http.StatusOK, respBody)
		}))

	// get one event
	muxer.HandleFunc("GET /api/events/{id}", Instrument(as, "/api/events/{id}",
		func(w http.ResponseWriter, r *http.Request) {
			startTimer := time.Now()
			eventModel, err := model.GetEvent(r.Context(), as.BunDB, r.PathValue("id"))
			if err != nil {
				writeModelError(w, r, err)
				return
			}
			as.MetricChans.ObserveDatabaseRead(startTimer)

			writeJSON(w, http.StatusOK, newEventRespBody(eventModel))
		}))

	// create an event, the response is the stored record
	muxer.HandleFunc("POST /api/events", Instrument(as, "/api/events",
		func(w http.ResponseWriter, r *http.Request) {
			reqBody, ok := decodeEventFields(w, r)
			if !ok {
				return
			}

			eventModel, err := model.NewEvent(reqBody)
			if err != nil {
				writeModelError(w, r, err)
				return
			}
			startTimer := time.Now()
			if err := eventModel.Insert(r.Context(), as.BunDB); err != nil {
				writeModelError(w, r, err)
				return
			}
			as.MetricChans.ObserveDatabaseWrite(startTimer)

			writeJSON(w, http.StatusCreated, newEventRespBody(eventModel))
		}))

	// partial update, only non-empty fields are applied
	muxer.HandleFunc("PUT /api/events/{id}", Instrument(as, "/api/events/{id}",
		func(w http.ResponseWriter, r *http.Request) {
			reqBody, ok := decodeEventFields(w, r)
			if !ok {
				return
			}

			eventModel, err := model.GetEvent(r.Context(), as.BunDB, r.PathValue("id"))
			if err != nil {
				writeModelError(w, r, err)
				return
			}
			if err := eventModel.Apply(reqBody); err != nil {
				writeModelError(w, r, err)
				return
			}
			startTimer := time.Now()
			if err := eventModel.Update(r.Context(), as.BunDB); err != nil {
				writeModelError(w, r, err)
				return
			}
			as.MetricChans.ObserveDatabaseWrite(startTimer)

			writeJSON(w, http.StatusOK, newEventRespBody(eventModel))
		}))

	// delete an event
	muxer.HandleFunc("DELETE /api/events/{id}", Instrument(as, "/api/events/{id}",
		func(w http.ResponseWriter, r *http.Request) {
			startTimer := time.Now()
			if err := model.DeleteEvent(r.Context(), as.BunDB, r.PathValue("id")); err != nil {
				writeModelError(w, r, err)
				return
			}
			as.MetricChans.ObserveDatabaseWrite(startTimer)

			writeMessage(w, http.StatusOK, "Event deleted")
		}))
}
