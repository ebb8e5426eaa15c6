package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"calendar/src-server/model"
)

// jsTimeLayout matches Date.prototype.toISOString, which the web client parses.
const jsTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type MessageRespBody struct {
	Message string `json:"message"`
}

type EventRespBody struct {
	ID          string `json:"id"`
	LegacyID    string `json:"_id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func formatUnixMilli(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(jsTimeLayout)
}

func newEventRespBody(e *model.Event) EventRespBody {
	body := EventRespBody{
		ID:          e.ID,
		LegacyID:    e.ID,
		Title:       e.Title,
		Start:       formatUnixMilli(e.StartDateUnixMilli),
		End:         formatUnixMilli(e.EndDateUnixMilli),
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   formatUnixMilli(e.CreatedAt),
	}
	if e.UpdatedAt != 0 {
		body.UpdatedAt = formatUnixMilli(e.UpdatedAt)
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("can't write JSON response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageRespBody{Message: msg})
}

// writeModelError maps model errors onto status codes: not found is 404,
// validation is 400, anything else is a store failure and 500.
func writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Event not found")
	case errors.As(err, &validationErr):
		writeMessage(w, http.StatusBadRequest, validationErr.Error())
	default:
		slog.Error("store error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}
