// Package controller owns the calendar screen state and talks to the event
// service. All state transitions go through Reduce; the Controller only
// sequences network calls around them.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"calendar/src-client/api"
)

var (
	ErrMutationInFlight = errors.New("another change is still being saved")
	ErrNothingSelected  = errors.New("no event selected")
)

type EventService interface {
	List(ctx context.Context) ([]api.Event, error)
	Create(ctx context.Context, in api.EventInput) (api.Event, error)
	Update(ctx context.Context, id string, in api.EventInput) (api.Event, error)
	Delete(ctx context.Context, id string) (string, error)
}

type Controller struct {
	mutex sync.Mutex
	state State
	seq   uint64

	service EventService
	now     func() time.Time
}

func New(service EventService, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		state:   NewState(now()),
		service: service,
		now:     now,
	}
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

func (c *Controller) Dispatch(a Action) State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// Today jumps to the current moment using the controller clock.
func (c *Controller) Today() State {
	return c.Dispatch(GoToday{Now: c.now()})
}

// Refresh fetches the full event list. When fetches overlap only the most
// recently issued one is applied.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mutex.Lock()
	c.seq++
	seq := c.seq
	c.state = Reduce(c.state, FetchStarted{Seq: seq})
	c.mutex.Unlock()

	events, err := c.service.List(ctx)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err != nil {
		slog.Error("can't fetch events", "seq", seq, "error", err)
		c.state = Reduce(c.state, FetchFailed{Seq: seq, Err: err})
		return err
	}
	if seq != c.state.FetchSeq {
		slog.Debug("discarding stale fetch", "seq", seq, "latest", c.state.FetchSeq)
	}
	c.state = Reduce(c.state, FetchSucceeded{Seq: seq, Events: events})
	return nil
}

// Save creates an event, or updates the one being edited.
func (c *Controller) Save(ctx context.Context, in api.EventInput) error {
	c.mutex.Lock()
	kind := MutationCreate
	var id string
	if c.state.EditingEvent != nil {
		kind = MutationUpdate
		id = c.state.EditingEvent.ID
	}
	if err := c.begin(kind); err != nil {
		c.mutex.Unlock()
		return err
	}
	c.mutex.Unlock()

	var err error
	if kind == MutationUpdate {
		_, err = c.service.Update(ctx, id, in)
	} else {
		_, err = c.service.Create(ctx, in)
	}
	return c.finish(ctx, kind, err)
}

// DeleteSelected removes the event shown in the details panel. Nothing is
// deleted while the panel is closed, even if an event is still remembered.
func (c *Controller) DeleteSelected(ctx context.Context) error {
	c.mutex.Lock()
	if !c.state.IsDetailsOpen || c.state.SelectedEvent == nil {
		c.mutex.Unlock()
		return ErrNothingSelected
	}
	id := c.state.SelectedEvent.ID
	if err := c.begin(MutationDelete); err != nil {
		c.mutex.Unlock()
		return err
	}
	c.mutex.Unlock()

	_, err := c.service.Delete(ctx, id)
	return c.finish(ctx, MutationDelete, err)
}

// begin must be called with the mutex held.
func (c *Controller) begin(kind MutationKind) error {
	if c.state.Pending != MutationNone {
		return ErrMutationInFlight
	}
	c.state = Reduce(c.state, MutationStarted{Kind: kind})
	return nil
}

func (c *Controller) finish(ctx context.Context, kind MutationKind, err error) error {
	c.mutex.Lock()
	if err != nil {
		slog.Error("can't "+string(kind)+" event", "error", err)
		c.state = Reduce(c.state, MutationFailed{Kind: kind, Err: err, At: c.now()})
		c.mutex.Unlock()
		return err
	}
	c.state = Reduce(c.state, MutationSucceeded{Kind: kind, At: c.now()})
	c.mutex.Unlock()

	// the mutation already landed; a failed refetch only shows up in FetchErr
	if err := c.Refresh(ctx); err != nil {
		slog.Warn("refetch after "+string(kind)+" failed", "error", err)
	}
	return nil
}
