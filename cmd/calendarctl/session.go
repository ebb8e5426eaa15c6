package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"calendar/src-client/api"
	"calendar/src-client/controller"
	"calendar/src-client/input"
	"calendar/src-client/view"
	"calendar/src-shared/calendar"
)

const helpText = `commands:
  next | prev | today          move by one day, week or month
  day | week | month           switch view
  date <when>                  jump to a date, e.g. "date next friday"
  filter <category|none>       toggle a category filter
  list                         numbered list of the filtered events
  sidebar                      categories and recent events
  open <#|id>                  show an event
  new                          create an event
  edit                         edit the open event
  delete                       delete the open event
  close                        close the open event
  refresh                      reload events
  quit`

// session drives one controller from typed commands.
type session struct {
	ctx    context.Context
	env    *env
	ctrl   *controller.Controller
	writer *view.Writer

	reader  *bufio.Reader
	listed  []api.Event
	noticed int
}

func newSession(ctx context.Context, e *env) (*session, error) {
	s := &session{
		ctx:    ctx,
		env:    e,
		ctrl:   controller.New(e.client, e.now),
		writer: view.NewWriter(e.out),
	}
	if err := s.ctrl.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return s, nil
}

func (s *session) builder() view.Builder {
	return view.NewBuilder(s.env.weekStart, s.env.now())
}

func (s *session) render() {
	s.writer.Render(s.ctrl.State(), s.builder())
}

func (s *session) sidebar() {
	state := s.ctrl.State()
	s.writer.Sidebar(view.BuildSidebar(state.Events, state.SelectedCategory))
}

func (s *session) setView(v calendar.View) {
	s.ctrl.Dispatch(controller.SetView{View: v})
}

func (s *session) goTo(raw string) error {
	t, err := s.env.parser.Time(raw, s.env.now())
	if err != nil {
		return err
	}
	s.ctrl.Dispatch(controller.SetDate{Date: t})
	return nil
}

func (s *session) filter(raw string) error {
	raw = strings.ToLower(strings.TrimSpace(raw))
	state := s.ctrl.State()
	if raw == "none" || raw == "" {
		if state.SelectedCategory != "" {
			s.ctrl.Dispatch(controller.SelectCategory{Category: state.SelectedCategory})
		}
		return nil
	}
	category := calendar.Category(raw)
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", raw)
	}
	s.ctrl.Dispatch(controller.SelectCategory{Category: category})
	return nil
}

func (s *session) list() {
	s.listed = s.ctrl.State().FilteredEvents()
	s.writer.Table(s.listed)
}

// find resolves a number from the last list, or an id.
func (s *session) find(ref string) (api.Event, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.listed) {
		return s.listed[n-1], true
	}
	for _, e := range s.ctrl.State().Events {
		if e.ID == ref {
			return e, true
		}
	}
	return api.Event{}, false
}

func (s *session) prompt(label string) (string, error) {
	fmt.Fprintf(s.env.out, "%s: ", label)
	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *session) promptFields(hint string) (input.Fields, error) {
	var f input.Fields
	var err error
	for _, field := range []struct {
		label string
		dst   *string
	}{
		{"Title" + hint, &f.Title},
		{"Start" + hint, &f.Start},
		{"End" + hint, &f.End},
		{"Category" + hint, &f.Category},
		{"Description" + hint, &f.Description},
	} {
		if *field.dst, err = s.prompt(field.label); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (s *session) printNotices() {
	notices := s.ctrl.State().Notifications
	for _, n := range notices[s.noticed:] {
		s.writer.Notice(n)
	}
	s.noticed = len(notices)
}

func (s *session) save(editing bool) error {
	hint := ""
	if editing {
		hint = " (blank keeps)"
	}
	fields, err := s.promptFields(hint)
	if err != nil {
		return err
	}
	in, err := s.env.parser.Build(fields, s.env.now())
	if err == nil && !editing {
		err = input.RequireCreate(in)
	}
	if err != nil {
		s.ctrl.Dispatch(controller.CloseModal{})
		return err
	}
	// a failed save leaves the form open; the notice says what failed
	_ = s.ctrl.Save(s.ctx, in)
	s.printNotices()
	return nil
}

// exec runs one command line. It returns false when the session should end.
func (s *session) exec(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return true, nil
	case "quit", "q", "exit":
		return false, nil
	case "help", "?":
		fmt.Fprintln(s.env.out, helpText)
		return true, nil
	case "next", "n":
		s.ctrl.Dispatch(controller.Navigate{Dir: 1})
	case "prev", "p":
		s.ctrl.Dispatch(controller.Navigate{Dir: -1})
	case "today", "t":
		s.ctrl.Today()
	case "day", "week", "month":
		v, _ := calendar.ParseView(cmd)
		s.setView(v)
	case "date":
		if err := s.goTo(arg); err != nil {
			return true, err
		}
	case "filter":
		if err := s.filter(arg); err != nil {
			return true, err
		}
	case "refresh":
		if err := s.ctrl.Refresh(s.ctx); err != nil {
			return true, err
		}
	case "list":
		s.list()
		return true, nil
	case "sidebar":
		s.sidebar()
		return true, nil
	case "open":
		event, ok := s.find(arg)
		if !ok {
			return true, fmt.Errorf("no event %q, run list first", arg)
		}
		s.ctrl.Dispatch(controller.ClickEvent{Event: event})
		s.writer.Details(event)
		return true, nil
	case "close":
		s.ctrl.Dispatch(controller.CloseDetails{})
		return true, nil
	case "new":
		s.ctrl.Dispatch(controller.OpenCreate{})
		if err := s.save(false); err != nil {
			return true, err
		}
	case "edit":
		if s.ctrl.Dispatch(controller.OpenEdit{}).EditingEvent == nil {
			return true, controller.ErrNothingSelected
		}
		if err := s.save(true); err != nil {
			return true, err
		}
	case "delete":
		if err := s.ctrl.DeleteSelected(s.ctx); errors.Is(err, controller.ErrNothingSelected) || errors.Is(err, controller.ErrMutationInFlight) {
			return true, err
		}
		s.printNotices()
	default:
		return true, fmt.Errorf("unknown command %q, try help", cmd)
	}
	s.render()
	return true, nil
}

func (s *session) loop(r io.Reader) error {
	s.reader = bufio.NewReader(r)
	s.render()
	for {
		line, err := s.prompt(">")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		more, err := s.exec(line)
		if err != nil {
			fmt.Fprintln(s.env.out, "error:", err)
		}
		if !more {
			return nil
		}
	}
}
