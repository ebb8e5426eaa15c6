package calendar_test

import (
	"testing"
	"time"

	"calendar/src-shared/calendar"
)

func TestStep(t *testing.T) {
	anchor := at("2024-03-15T10:00")

	if got := calendar.Step(calendar.ViewDay, anchor, -1); !got.Equal(at("2024-03-14T10:00")) {
		t.Error("day view should step one day back, got", got)
	}
	if got := calendar.Step(calendar.ViewWeek, anchor, 1); !got.Equal(at("2024-03-22T10:00")) {
		t.Error("week view should step seven days, got", got)
	}
	if got := calendar.Step(calendar.ViewMonth, anchor, 1); !got.Equal(at("2024-04-01T00:00")) {
		t.Error("month view should land on the first of next month, got", got)
	}
	if got := calendar.Step(calendar.ViewMonth, at("2024-01-31T10:00"), -1); !got.Equal(at("2023-12-01T00:00")) {
		t.Error("month view should wrap the year, got", got)
	}
	if got := calendar.Step(calendar.ViewMonth, anchor, 0); !got.Equal(anchor) {
		t.Error("zero direction should not move, got", got)
	}
}

func TestWeekDays(t *testing.T) {
	days := calendar.WeekDays(at("2024-03-13T15:00"), time.Sunday)
	if !days[0].Equal(at("2024-03-10T00:00")) || !days[6].Equal(at("2024-03-16T00:00")) {
		t.Error("unexpected sunday-first week", days[0], days[6])
	}
	days = calendar.WeekDays(at("2024-03-10T15:00"), time.Monday)
	if !days[0].Equal(at("2024-03-04T00:00")) {
		t.Error("sunday belongs to the previous monday-first week, got", days[0])
	}
}

func TestMonthWeeks(t *testing.T) {
	// March 2024 starts on a Friday and ends on a Sunday
	weeks := calendar.MonthWeeks(at("2024-03-20T00:00"), time.Sunday)
	if len(weeks) != 6 {
		t.Fatal("expected 6 weeks, got", len(weeks))
	}
	if !weeks[0][0].Equal(at("2024-02-25T00:00")) {
		t.Error("grid should start on Feb 25, got", weeks[0][0])
	}
	if !weeks[5][6].Equal(at("2024-04-06T00:00")) {
		t.Error("grid should end on Apr 6, got", weeks[5][6])
	}
	for _, week := range weeks {
		if len(week) != 7 {
			t.Error("every week needs seven days")
		}
	}

	// February 2015 fits exactly in four weeks
	if weeks := calendar.MonthWeeks(at("2015-02-10T00:00"), time.Sunday); len(weeks) != 4 {
		t.Error("expected 4 weeks, got", len(weeks))
	}
}

func TestTitle(t *testing.T) {
	cases := []struct {
		view calendar.View
		date string
		want string
	}{
		{calendar.ViewDay, "2024-03-11T09:00", "March 11, 2024"},
		{calendar.ViewWeek, "2024-03-13T09:00", "March 10 - 16, 2024"},
		{calendar.ViewWeek, "2024-04-02T09:00", "Mar 31 - Apr 6, 2024"},
		{calendar.ViewMonth, "2024-03-13T09:00", "March 2024"},
	}
	for _, c := range cases {
		if got := calendar.Title(c.view, at(c.date), time.Sunday); got != c.want {
			t.Errorf("%s %s: want %q, got %q", c.view, c.date, c.want, got)
		}
	}
}

func TestParseViewAndWeekStart(t *testing.T) {
	if v, err := calendar.ParseView(" Month "); err != nil || v != calendar.ViewMonth {
		t.Error("expected month view", v, err)
	}
	if _, err := calendar.ParseView("year"); err == nil {
		t.Error("expected an error for an unknown view")
	}
	if d, err := calendar.ParseWeekStart("monday"); err != nil || d != time.Monday {
		t.Error("expected monday", d, err)
	}
	if _, err := calendar.ParseWeekStart("friday"); err == nil {
		t.Error("expected an error for friday")
	}
	if names := calendar.WeekdayNames(time.Monday); names[0] != "Mon" || names[6] != "Sun" {
		t.Error("unexpected weekday names", names)
	}
}

func TestCategory(t *testing.T) {
	if calendar.ParseCategory("mle") != calendar.CategoryMLE {
		t.Error("mle should parse")
	}
	if calendar.ParseCategory("") != calendar.CategoryOther {
		t.Error("blank should default to other")
	}
	if calendar.ParseCategory("sports") != calendar.CategoryOther {
		t.Error("unknown should default to other")
	}
	if calendar.Category("nope").Color() != calendar.CategoryOther.Color() {
		t.Error("unknown category should use the fallback color")
	}
	if calendar.CategoryAIAgent.Name() != "AI based agents" {
		t.Error("unexpected display name", calendar.CategoryAIAgent.Name())
	}
	if got := calendar.CategoriesIn(calendar.SectionGoals); len(got) != 2 {
		t.Error("GOALS should hold fit and academics", got)
	}
	if got := calendar.CategoriesIn(calendar.SectionTasks); len(got) != 4 {
		t.Error("TASKS should hold four categories", got)
	}
	if len(calendar.Categories()) != 7 {
		t.Error("expected seven categories")
	}
}
