package route

import (
	"log/slog"
	"net/http"
	"time"

	"calendar/src-server/utils"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Instrument logs each request and reports it to the metric collectors
// under the route pattern rather than the raw path.
func Instrument(as *utils.AppState, route string, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		startTimer := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		latency := time.Since(startTimer)

		as.MetricChans.ObserveRequest(utils.RequestSample{
			Method:  r.Method,
			Route:   route,
			Status:  rec.status,
			Latency: latency,
		})

		level := slog.LevelDebug
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", latency,
		)
	}
}
