package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"calendar/src-client/api"
	"calendar/src-client/controller"
	"calendar/src-shared/calendar"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const monthCellWidth = 16

// Writer prints layouts. Colors are dropped automatically when out is not a
// terminal.
type Writer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	title    cases.Caser

	heading lipgloss.Style
	muted   lipgloss.Style
	today   lipgloss.Style
	failure lipgloss.Style
	success lipgloss.Style
}

func NewWriter(out io.Writer) *Writer {
	r := lipgloss.NewRenderer(out)
	return &Writer{
		out:      out,
		renderer: r,
		title:    cases.Title(language.English),

		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
		today:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563eb")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
		success: r.NewStyle().Foreground(lipgloss.Color("#10b981")),
	}
}

func (w *Writer) dot(color string) string {
	return w.renderer.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

func (w *Writer) header(view calendar.View, title string) {
	fmt.Fprintln(w.out, w.heading.Render(title)+"  "+w.muted.Render("("+w.title.String(string(view))+" view)"))
}

func (w *Writer) dayHeading(col Column, layout string) string {
	label := col.Date.Format(layout)
	if col.IsToday {
		return w.today.Render(label + " (today)")
	}
	return w.heading.Render(label)
}

func (w *Writer) blocks(col Column) {
	if len(col.Blocks) == 0 {
		fmt.Fprintln(w.out, w.muted.Render("  no events"))
		return
	}
	for _, b := range col.Blocks {
		fmt.Fprintf(w.out, "  %8s  %s %s %s\n",
			b.Time,
			w.dot(b.Color),
			b.Event.Title,
			w.muted.Render(fmt.Sprintf("[%s] until %s, row %d+%d",
				calendar.Category(b.Event.Category).Name(),
				calendar.TimeLabel(b.Event.End),
				int(b.Geometry.Top), int(b.Geometry.Height))),
		)
	}
}

func (w *Writer) Day(l DayLayout) {
	w.header(calendar.ViewDay, l.Title)
	fmt.Fprintln(w.out, w.dayHeading(l.Column, "Monday"))
	w.blocks(l.Column)
}

func (w *Writer) Week(l WeekLayout) {
	w.header(calendar.ViewWeek, l.Title)
	for _, col := range l.Columns {
		fmt.Fprintln(w.out, w.dayHeading(col, "Mon 2"))
		w.blocks(col)
	}
}

func (w *Writer) Month(l MonthLayout) {
	w.header(calendar.ViewMonth, l.Title)
	cell := w.renderer.NewStyle().Width(monthCellWidth).MaxWidth(monthCellWidth)

	headers := make([]string, len(l.Weekdays))
	for i, name := range l.Weekdays {
		headers[i] = cell.Inherit(w.heading).Render(name)
	}
	fmt.Fprintln(w.out, lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for _, week := range l.Weeks {
		cells := make([]string, len(week))
		for i, c := range week {
			lines := []string{strconv.Itoa(c.Date.Day())}
			switch {
			case c.IsToday:
				lines[0] = w.today.Render(lines[0])
			case !c.InMonth:
				lines[0] = w.muted.Render(lines[0])
			}
			for _, b := range c.Events {
				lines = append(lines, w.dot(b.Color)+" "+truncate(b.Event.Title, monthCellWidth-3))
			}
			if c.More > 0 {
				lines = append(lines, w.muted.Render(fmt.Sprintf("+ %d more", c.More)))
			}
			cells[i] = cell.Render(strings.Join(lines, "\n"))
		}
		fmt.Fprintln(w.out, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}

func (w *Writer) Sidebar(s Sidebar) {
	for _, section := range s.Sections {
		fmt.Fprintln(w.out, w.muted.Render(section.Title))
		for _, c := range section.Categories {
			name := c.Info.Name
			if c.Selected {
				name = w.today.Render(name)
			}
			fmt.Fprintf(w.out, "  %s %s\n", w.dot(c.Info.Color), name)
			for _, e := range c.Events {
				fmt.Fprintf(w.out, "      %s\n", e.Title)
			}
		}
	}
	fmt.Fprintln(w.out, w.muted.Render("RECENT EVENTS"))
	for _, e := range s.Recent {
		fmt.Fprintf(w.out, "  %s %s\n", w.dot(calendar.Category(e.Category).Color()), e.Title)
	}
}

// Details prints a single event the way the details panel shows it.
func (w *Writer) Details(e api.Event) {
	category := calendar.Category(e.Category)
	fmt.Fprintln(w.out, w.heading.Render(e.Title))
	fmt.Fprintln(w.out, "  "+e.Start.Format("Monday, January 2, 2006"))
	fmt.Fprintf(w.out, "  %s - %s\n", calendar.TimeLabel(e.Start), calendar.TimeLabel(e.End))
	fmt.Fprintf(w.out, "  %s %s\n", w.dot(category.Color()), category.Name())
	if e.Description != "" {
		fmt.Fprintln(w.out, "  "+e.Description)
	}
	fmt.Fprintln(w.out, w.muted.Render("  id "+e.ID))
}

func (w *Writer) Notice(n controller.Notification) {
	style := w.success
	if n.Level == controller.NoticeError {
		style = w.failure
	}
	fmt.Fprintln(w.out, style.Render(n.Title)+" "+n.Message)
}

// Error prints a failed load the way the main area reports it.
func (w *Writer) Error(err error) {
	fmt.Fprintln(w.out, w.failure.Render("Error loading events"))
	fmt.Fprintln(w.out, "  "+err.Error())
}

// Render prints whatever the controller state says is on screen.
func (w *Writer) Render(s controller.State, b Builder) {
	if s.FetchErr != nil {
		w.Error(s.FetchErr)
		return
	}
	events := s.FilteredEvents()
	switch s.View {
	case calendar.ViewDay:
		w.Day(b.Day(s.CurrentDate, events))
	case calendar.ViewMonth:
		w.Month(b.Month(s.CurrentDate, events))
	default:
		w.Week(b.Week(s.CurrentDate, events))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
