package model_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"calendar/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bundb.Close() })
	return bundb
}

func ptr(s string) *string { return &s }

func ts(s string) *model.Timestamp {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return model.NewTimestamp(parsed)
}

func mustCreate(t *testing.T, db bun.IDB, fields model.EventFields) *model.Event {
	t.Helper()
	event, err := model.NewEvent(fields)
	if err != nil {
		t.Fatal(err)
	}
	if err := event.Insert(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return event
}

func TestEventCreate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// case: defaults and cleanup
	func() {
		event := mustCreate(t, db, model.EventFields{
			Title: ptr("  Standup  "),
			Start: ts("2024-03-11T09:00:00Z"),
			End:   ts("2024-03-11T09:15:00Z"),
		})
		if event.ID == "" {
			t.Error("id should be generated")
		}
		if event.Title != "Standup" {
			t.Error("title should be trimmed, got", event.Title)
		}
		if event.Category != "other" {
			t.Error("category should default to other, got", event.Category)
		}
		if event.Description != "" {
			t.Error("description should default to empty, got", event.Description)
		}
		if event.CreatedAt == 0 {
			t.Error("createdAt should be set")
		}
		stored, err := model.GetEvent(ctx, db, event.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.ID != event.ID || !stored.Start().Equal(time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)) {
			t.Error("stored event differs", stored)
		}
	}()

	// case: unknown category becomes other
	func() {
		event := mustCreate(t, db, model.EventFields{
			Title:    ptr("Run"),
			Start:    ts("2024-03-11T07:00:00Z"),
			End:      ts("2024-03-11T08:00:00Z"),
			Category: ptr("sports"),
		})
		if event.Category != "other" {
			t.Error("unknown category should become other, got", event.Category)
		}
	}()

	// case: required fields
	for _, fields := range []model.EventFields{
		{Start: ts("2024-03-11T07:00:00Z"), End: ts("2024-03-11T08:00:00Z")},
		{Title: ptr("   "), Start: ts("2024-03-11T07:00:00Z"), End: ts("2024-03-11T08:00:00Z")},
		{Title: ptr("x"), End: ts("2024-03-11T08:00:00Z")},
		{Title: ptr("x"), Start: ts("2024-03-11T07:00:00Z")},
	} {
		_, err := model.NewEvent(fields)
		var validationErr *model.ValidationError
		if !errors.As(err, &validationErr) {
			t.Error("expected a validation error, got", err)
		}
	}

	// case: start after end is accepted
	func() {
		event := mustCreate(t, db, model.EventFields{
			Title: ptr("Backwards"),
			Start: ts("2024-03-11T10:00:00Z"),
			End:   ts("2024-03-11T09:00:00Z"),
		})
		if event.StartDateUnixMilli <= event.EndDateUnixMilli {
			t.Error("inverted range should be stored as sent")
		}
	}()
}

func TestListEventsSorted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, start := range []string{
		"2024-03-12T09:00:00Z",
		"2024-03-10T09:00:00Z",
		"2024-03-11T18:00:00Z",
		"2024-03-11T08:00:00Z",
	} {
		mustCreate(t, db, model.EventFields{
			Title: ptr(start),
			Start: ts(start),
			End:   ts(start),
		})
	}

	events, err := model.ListEvents(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 4 {
		t.Fatal("expected 4 events, got", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i-1].StartDateUnixMilli > events[i].StartDateUnixMilli {
			t.Error("events are not sorted by start", events[i-1].Title, events[i].Title)
		}
	}
	if events[0].Title != "2024-03-10T09:00:00Z" {
		t.Error("unexpected first event", events[0].Title)
	}
}

func TestEventUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	original := mustCreate(t, db, model.EventFields{
		Title:       ptr("Standup"),
		Start:       ts("2024-03-11T09:00:00Z"),
		End:         ts("2024-03-11T09:15:00Z"),
		Category:    ptr("mle"),
		Description: ptr("daily sync"),
	})

	// case: only description changes
	func() {
		event, err := model.GetEvent(ctx, db, original.ID)
		if err != nil {
			t.Fatal(err)
		}
		if err := event.Apply(model.EventFields{Description: ptr("weekly sync")}); err != nil {
			t.Fatal(err)
		}
		if err := event.Update(ctx, db); err != nil {
			t.Fatal(err)
		}
		stored, err := model.GetEvent(ctx, db, original.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Description != "weekly sync" {
			t.Error("description should change, got", stored.Description)
		}
		if stored.Title != original.Title ||
			stored.Category != original.Category ||
			stored.StartDateUnixMilli != original.StartDateUnixMilli ||
			stored.EndDateUnixMilli != original.EndDateUnixMilli ||
			stored.CreatedAt != original.CreatedAt ||
			stored.ID != original.ID {
			t.Error("untouched fields changed", stored)
		}
		if stored.UpdatedAt == 0 {
			t.Error("updatedAt should be set")
		}
	}()

	// case: empty values are ignored
	func() {
		event, err := model.GetEvent(ctx, db, original.ID)
		if err != nil {
			t.Fatal(err)
		}
		if err := event.Apply(model.EventFields{
			Title:       ptr(""),
			Category:    ptr(""),
			Description: ptr(""),
			Start:       &model.Timestamp{},
		}); err != nil {
			t.Fatal(err)
		}
		if event.Title != "Standup" || event.Category != "mle" || event.Description != "weekly sync" {
			t.Error("empty values must not clear fields", event)
		}
	}()

	// case: bad values are validation errors
	func() {
		event, err := model.GetEvent(ctx, db, original.ID)
		if err != nil {
			t.Fatal(err)
		}
		var validationErr *model.ValidationError
		if err := event.Apply(model.EventFields{Title: ptr("   ")}); !errors.As(err, &validationErr) {
			t.Error("blank title should fail validation, got", err)
		}
	}()

	// case: updating a deleted event
	func() {
		event, err := model.GetEvent(ctx, db, original.ID)
		if err != nil {
			t.Fatal(err)
		}
		if err := model.DeleteEvent(ctx, db, original.ID); err != nil {
			t.Fatal(err)
		}
		if err := event.Update(ctx, db); !errors.Is(err, model.ErrNotFound) {
			t.Error("update after delete should be not found, got", err)
		}
	}()
}

func TestMissingEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := model.GetEvent(ctx, db, uuid.NewString()); !errors.Is(err, model.ErrNotFound) {
		t.Error("get should be not found, got", err)
	}
	if _, err := model.GetEvent(ctx, db, "not-a-uuid"); !errors.Is(err, model.ErrNotFound) {
		t.Error("malformed id should be not found, got", err)
	}
	if err := model.DeleteEvent(ctx, db, uuid.NewString()); !errors.Is(err, model.ErrNotFound) {
		t.Error("delete should be not found, got", err)
	}
	var storeErr *model.StoreError
	if err := model.DeleteEvent(ctx, db, "x"); errors.As(err, &storeErr) {
		t.Error("not found must not be reported as a store error")
	}
	if err := model.Ping(ctx, db); err != nil {
		t.Error("ping failed", err)
	}
}
