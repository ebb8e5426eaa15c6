package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calendar/src-client/api"
)

func TestClient(t *testing.T) {
	var lastBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"a","title":"Standup","start":"2024-03-11T09:00:00.000Z","end":"2024-03-11T09:15:00.000Z","category":"mle","description":"","createdAt":"2024-03-01T00:00:00.000Z"}]`))
	})
	mux.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Event not found"}`))
	})
	mux.HandleFunc("PUT /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		lastBody = nil
		json.NewDecoder(r.Body).Decode(&lastBody)
		w.Write([]byte(`{"id":"` + r.PathValue("id") + `","title":"Standup","start":"2024-03-11T09:00:00.000Z","end":"2024-03-11T09:15:00.000Z","category":"basics"}`))
	})
	mux.HandleFunc("POST /api/events", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"title: is required"}`))
	})
	mux.HandleFunc("DELETE /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Event deleted"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tokyo := time.FixedZone("JST", 9*3600)
	client, err := api.NewClient(server.URL+"/api/", api.WithLocation(tokyo))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// case: list falls back to _id and converts to the display zone
	func() {
		events, err := client.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 1 || events[0].ID != "a" {
			t.Fatal("unexpected events", events)
		}
		if events[0].Start.Location() != tokyo || events[0].Start.Hour() != 18 {
			t.Error("start should be converted to JST", events[0].Start)
		}
	}()

	// case: 404 carries the server message
	func() {
		_, err := client.Get(ctx, "missing")
		if !api.IsNotFound(err) {
			t.Error("expected not found, got", err)
		}
	}()

	// case: update only sends the fields that are set
	func() {
		category := "basics"
		event, err := client.Update(ctx, "a", api.EventInput{Category: &category})
		if err != nil {
			t.Fatal(err)
		}
		if event.Category != "basics" || event.ID != "a" {
			t.Error("unexpected updated event", event)
		}
		if len(lastBody) != 1 || lastBody["category"] != "basics" {
			t.Error("update body should only carry category", lastBody)
		}
	}()

	// case: validation error
	func() {
		_, err := client.Create(ctx, api.EventInput{})
		apiErr, ok := err.(*api.Error)
		if !ok || apiErr.Status != http.StatusBadRequest || apiErr.Message != "title: is required" {
			t.Error("expected a 400 api error, got", err)
		}
	}()

	// case: delete message
	func() {
		msg, err := client.Delete(ctx, "a")
		if err != nil || msg != "Event deleted" {
			t.Error("unexpected delete result", msg, err)
		}
	}()

	if _, err := api.NewClient("ftp://example.com"); err == nil {
		t.Error("expected an error for a non-http scheme")
	}
}
