package controller

import (
	"time"

	"calendar/src-client/api"
	"calendar/src-shared/calendar"
)

type MutationKind string

const (
	MutationNone   MutationKind = ""
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notification struct {
	Level   NoticeLevel
	Title   string
	Message string
	At      time.Time
}

type State struct {
	CurrentDate      time.Time
	View             calendar.View
	SelectedCategory calendar.Category

	IsModalOpen   bool
	EditingEvent  *api.Event
	SelectedEvent *api.Event
	IsDetailsOpen bool

	Events    []api.Event
	IsLoading bool
	FetchErr  error
	// FetchSeq is the sequence number of the latest issued fetch
	FetchSeq uint64

	Pending       MutationKind
	Notifications []Notification
}

func NewState(now time.Time) State {
	return State{
		CurrentDate: now,
		View:        calendar.ViewWeek,
	}
}

// FilteredEvents applies the category filter. No selection keeps everything.
func (s State) FilteredEvents() []api.Event {
	if s.SelectedCategory == "" {
		return s.Events
	}
	filtered := make([]api.Event, 0, len(s.Events))
	for _, e := range s.Events {
		if calendar.Category(e.Category) == s.SelectedCategory {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

type Action interface {
	action()
}

type (
	Navigate       struct{ Dir int }
	GoToday        struct{ Now time.Time }
	SetDate        struct{ Date time.Time }
	SetView        struct{ View calendar.View }
	SelectCategory struct{ Category calendar.Category }
	ClickEvent     struct{ Event api.Event }
	ClickDay       struct{ Day time.Time }
	OpenCreate     struct{}
	// OpenEdit edits whatever event the details panel is showing.
	OpenEdit     struct{}
	CloseModal   struct{}
	CloseDetails struct{}

	FetchStarted   struct{ Seq uint64 }
	FetchSucceeded struct {
		Seq    uint64
		Events []api.Event
	}
	FetchFailed struct {
		Seq uint64
		Err error
	}

	MutationStarted   struct{ Kind MutationKind }
	MutationSucceeded struct {
		Kind MutationKind
		At   time.Time
	}
	MutationFailed struct {
		Kind MutationKind
		Err  error
		At   time.Time
	}
)

func (Navigate) action()          {}
func (GoToday) action()           {}
func (SetDate) action()           {}
func (SetView) action()           {}
func (SelectCategory) action()    {}
func (ClickEvent) action()        {}
func (ClickDay) action()          {}
func (OpenCreate) action()        {}
func (OpenEdit) action()          {}
func (CloseModal) action()        {}
func (CloseDetails) action()      {}
func (FetchStarted) action()      {}
func (FetchSucceeded) action()    {}
func (FetchFailed) action()       {}
func (MutationStarted) action()   {}
func (MutationSucceeded) action() {}
func (MutationFailed) action()    {}

var successNotices = map[MutationKind]Notification{
	MutationCreate: {Title: "Event created", Message: "Your event has been successfully created."},
	MutationUpdate: {Title: "Event updated", Message: "Your event has been successfully updated."},
	MutationDelete: {Title: "Event deleted", Message: "Your event has been successfully deleted."},
}

// Reduce returns the state after applying a. It never mutates s in place;
// slices are copied before being appended to.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Navigate:
		s.CurrentDate = calendar.Step(s.View, s.CurrentDate, a.Dir)
	case GoToday:
		s.CurrentDate = a.Now
	case SetDate:
		s.CurrentDate = a.Date
	case SetView:
		s.View = a.View
	case SelectCategory:
		if s.SelectedCategory == a.Category {
			s.SelectedCategory = ""
		} else {
			s.SelectedCategory = a.Category
		}
	case ClickEvent:
		event := a.Event
		s.SelectedEvent = &event
		s.IsDetailsOpen = true
	case ClickDay:
		s.CurrentDate = a.Day
		s.View = calendar.ViewDay
	case OpenCreate:
		s.EditingEvent = nil
		s.IsModalOpen = true
	case OpenEdit:
		if s.SelectedEvent == nil {
			return s
		}
		s.EditingEvent = s.SelectedEvent
		s.IsDetailsOpen = false
		s.IsModalOpen = true
	case CloseModal:
		s.IsModalOpen = false
		s.EditingEvent = nil
	case CloseDetails:
		s.IsDetailsOpen = false
		s.SelectedEvent = nil

	case FetchStarted:
		if a.Seq > s.FetchSeq {
			s.FetchSeq = a.Seq
		}
		s.IsLoading = true
	case FetchSucceeded:
		if a.Seq != s.FetchSeq {
			return s
		}
		s.Events = a.Events
		s.IsLoading = false
		s.FetchErr = nil
	case FetchFailed:
		if a.Seq != s.FetchSeq {
			return s
		}
		s.IsLoading = false
		s.FetchErr = a.Err

	case MutationStarted:
		s.Pending = a.Kind
	case MutationSucceeded:
		s.Pending = MutationNone
		switch a.Kind {
		case MutationCreate, MutationUpdate:
			s.IsModalOpen = false
			s.EditingEvent = nil
		case MutationDelete:
			s.IsDetailsOpen = false
			s.SelectedEvent = nil
		}
		notice := successNotices[a.Kind]
		notice.Level = NoticeSuccess
		notice.At = a.At
		s.Notifications = appendNotice(s.Notifications, notice)
	case MutationFailed:
		s.Pending = MutationNone
		s.Notifications = appendNotice(s.Notifications, Notification{
			Level:   NoticeError,
			Title:   "Error",
			Message: "Failed to " + string(a.Kind) + " event. Please try again.",
			At:      a.At,
		})
	}
	return s
}

func appendNotice(list []Notification, n Notification) []Notification {
	out := make([]Notification, len(list), len(list)+1)
	copy(out, list)
	return append(out, n)
}
