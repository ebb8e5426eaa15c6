package view

import (
	"fmt"
	"strconv"

	"calendar/src-client/api"
	"calendar/src-shared/calendar"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table prints events as a numbered list; the number is what the
// interactive prompt accepts in place of an id.
func (w *Writer) Table(events []api.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w.out, w.muted.Render("no events"))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(w.muted).
		Headers("#", "ID", "TITLE", "START", "END", "CATEGORY")
	for i, e := range events {
		t.Row(
			strconv.Itoa(i+1),
			e.ID,
			e.Title,
			e.Start.Format("Mon Jan 2 2006 ")+calendar.TimeLabel(e.Start),
			calendar.TimeLabel(e.End),
			calendar.Category(e.Category).Name(),
		)
	}
	fmt.Fprintln(w.out, t.Render())
}
