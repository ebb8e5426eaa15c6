package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"calendar/src-server/utils"
	"calendar/src-shared/calendar"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`                   // required
	Title       string `bun:"title,notnull"`           // required
	Category    string `bun:"category,notnull"`        // required
	Description string `bun:"description,notnull"`

	StartDateUnixMilli int64 `bun:"start_date,notnull"` // required
	EndDateUnixMilli   int64 `bun:"end_date,notnull"`   // required

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Event) Start() time.Time { return time.UnixMilli(e.StartDateUnixMilli).UTC() }
func (e *Event) End() time.Time   { return time.UnixMilli(e.EndDateUnixMilli).UTC() }

// EventFields is the writable part of an event as sent by clients. A nil
// pointer means the field was not sent.
type EventFields struct {
	Title       *string    `json:"title"`
	Start       *Timestamp `json:"start"`
	End         *Timestamp `json:"end"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewEvent builds an unsaved event from a create request. title, start and
// end are required; category falls back to "other".
func NewEvent(fields EventFields) (*Event, error) {
	e := &Event{
		Title:       utils.CleanupString(stringValue(fields.Title)),
		Category:    string(calendar.ParseCategory(stringValue(fields.Category))),
		Description: utils.CleanupString(stringValue(fields.Description)),
	}
	if e.Title == "" {
		return nil, requiredError("title")
	}
	if fields.Start.Empty() {
		return nil, requiredError("start")
	}
	if fields.End.Empty() {
		return nil, requiredError("end")
	}
	var err error
	if e.StartDateUnixMilli, err = fields.Start.unixMilli("start"); err != nil {
		return nil, err
	}
	if e.EndDateUnixMilli, err = fields.End.unixMilli("end"); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply overwrites the fields that were sent with a non-empty value. Empty
// strings and zero timestamps leave the stored value untouched, so a partial
// update can't clear a field.
func (e *Event) Apply(fields EventFields) error {
	if title := stringValue(fields.Title); title != "" {
		cleaned := utils.CleanupString(title)
		if cleaned == "" {
			return requiredError("title")
		}
		e.Title = cleaned
	}
	if !fields.Start.Empty() {
		start, err := fields.Start.unixMilli("start")
		if err != nil {
			return err
		}
		e.StartDateUnixMilli = start
	}
	if !fields.End.Empty() {
		end, err := fields.End.unixMilli("end")
		if err != nil {
			return err
		}
		e.EndDateUnixMilli = end
	}
	if category := stringValue(fields.Category); category != "" {
		e.Category = string(calendar.ParseCategory(category))
	}
	if description := stringValue(fields.Description); description != "" {
		e.Description = utils.CleanupString(description)
	}
	return nil
}

func (e *Event) validate() error {
	switch {
	case e.Title == "":
		return requiredError("title")
	case !calendar.Category(e.Category).Valid():
		return &ValidationError{Field: "category", Msg: fmt.Sprintf("%q is not a valid category", e.Category)}
	}
	return nil
}

// Insert assigns the id and creation time, then stores the event.
func (e *Event) Insert(ctx context.Context, db bun.IDB) error {
	if err := e.validate(); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC().UnixMilli()
	e.UpdatedAt = 0

	if _, err := db.NewInsert().
		Model(e).
		Exec(ctx); err != nil {
		return &StoreError{Op: "(*Event).Insert", Err: err}
	}
	return nil
}

// Update re-saves a previously loaded event.
func (e *Event) Update(ctx context.Context, db bun.IDB) error {
	if err := e.validate(); err != nil {
		return err
	}
	e.UpdatedAt = time.Now().UTC().UnixMilli()

	res, err := db.NewUpdate().
		Model(e).
		WherePK().
		Exec(ctx)
	if err != nil {
		return &StoreError{Op: "(*Event).Update", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("(*Event).Update: %w", ErrNotFound)
	}
	return nil
}

// ListEvents returns every event ordered by start date.
func ListEvents(ctx context.Context, db bun.IDB) ([]Event, error) {
	events := make([]Event, 0)
	if err := db.NewSelect().
		Model(&events).
		Order("start_date ASC", "created_at ASC", "id ASC").
		Scan(ctx); err != nil {
		return nil, &StoreError{Op: "ListEvents", Err: err}
	}
	return events, nil
}

func GetEvent(ctx context.Context, db bun.IDB, id string) (*Event, error) {
	event := new(Event)
	if err := db.NewSelect().
		Model(event).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetEvent: %w", ErrNotFound)
		}
		return nil, &StoreError{Op: "GetEvent", Err: err}
	}
	return event, nil
}

func DeleteEvent(ctx context.Context, db bun.IDB, id string) error {
	res, err := db.NewDelete().
		Model((*Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return &StoreError{Op: "DeleteEvent", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Op: "DeleteEvent", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("DeleteEvent: %w", ErrNotFound)
	}
	return nil
}

// Ping runs the cheapest possible query against the events table.
func Ping(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", "").
		Exists(ctx); err != nil {
		return &StoreError{Op: "Ping", Err: err}
	}
	return nil
}
