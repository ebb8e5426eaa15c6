package calendar

import (
	"fmt"
	"strings"
	"time"
)

type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

func ParseView(raw string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(raw))); v {
	case ViewDay, ViewWeek, ViewMonth:
		return v, nil
	default:
		return "", fmt.Errorf("ParseView: unknown view %q", raw)
	}
}

// ParseWeekStart accepts "sunday" or "monday"; blank means Sunday.
func ParseWeekStart(raw string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("ParseWeekStart: unsupported week start %q", raw)
	}
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

func SameMonth(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WeekDays returns the seven days of the week containing t.
func WeekDays(t time.Time, weekStart time.Weekday) []time.Time {
	start := StartOfWeek(t, weekStart)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthWeeks covers the month of t with whole weeks, padding with days of the
// neighbouring months at both ends.
func MonthWeeks(t time.Time, weekStart time.Weekday) [][]time.Time {
	first := StartOfWeek(StartOfMonth(t), weekStart)
	last := StartOfWeek(EndOfMonth(t), weekStart).AddDate(0, 0, 6)

	var weeks [][]time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 7) {
		weeks = append(weeks, WeekDays(day, weekStart))
	}
	return weeks
}

// WeekdayNames returns short weekday headers starting at weekStart.
func WeekdayNames(weekStart time.Weekday) []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return names
}

// Step moves the anchor date one page back (dir < 0) or forward (dir > 0).
// Month view lands on the first day of the adjacent month rather than
// shifting by a fixed number of days.
func Step(view View, current time.Time, dir int) time.Time {
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	default:
		return current
	}
	switch view {
	case ViewDay:
		return current.AddDate(0, 0, dir)
	case ViewMonth:
		y, m, _ := current.Date()
		return time.Date(y, m+time.Month(dir), 1, 0, 0, 0, 0, current.Location())
	default:
		return current.AddDate(0, 0, 7*dir)
	}
}

// Title formats the header line for a view anchored on t.
func Title(view View, t time.Time, weekStart time.Weekday) string {
	switch view {
	case ViewDay:
		return t.Format("January 2, 2006")
	case ViewMonth:
		return t.Format("January 2006")
	default:
		start := StartOfWeek(t, weekStart)
		end := start.AddDate(0, 0, 6)
		if start.Month() == end.Month() {
			return start.Format("January 2") + " - " + end.Format("2, 2006")
		}
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	}
}
