// Package view turns a list of events into day, week and month layouts and
// prints them to a terminal.
package view

import (
	"time"

	"calendar/src-client/api"
	"calendar/src-shared/calendar"
)

// MonthCellLimit is how many events a month cell lists before collapsing
// the rest into "+ N more".
const MonthCellLimit = 3

// RecentLimit is the length of the sidebar's recent list.
const RecentLimit = 5

type Block struct {
	Event    api.Event
	Geometry calendar.Geometry
	Color    string
	// start time label, e.g. "9:00 AM"
	Time string
}

type Column struct {
	Date    time.Time
	IsToday bool
	Blocks  []Block
}

type DayLayout struct {
	Title  string
	Hours  []string
	Column Column
}

type WeekLayout struct {
	Title   string
	Hours   []string
	Columns []Column
}

type MonthCell struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Events  []Block
	More    int
}

type MonthLayout struct {
	Title    string
	Weekdays []string
	Weeks    [][]MonthCell
}

type SidebarCategory struct {
	Info     calendar.CategoryInfo
	Selected bool
	Events   []api.Event
}

type SidebarSection struct {
	Title      string
	Categories []SidebarCategory
}

type Sidebar struct {
	Sections []SidebarSection
	Recent   []api.Event
}

// Builder holds what every layout shares.
type Builder struct {
	Projector calendar.Projector
	WeekStart time.Weekday
	Now       time.Time
}

func NewBuilder(weekStart time.Weekday, now time.Time) Builder {
	return Builder{
		Projector: calendar.NewProjector(),
		WeekStart: weekStart,
		Now:       now,
	}
}

func eventStart(e api.Event) time.Time { return e.Start }

func (b Builder) block(e api.Event) Block {
	return Block{
		Event:    e,
		Geometry: b.Projector.Project(e.Start, e.End),
		Color:    calendar.Category(e.Category).Color(),
		Time:     calendar.TimeLabel(e.Start),
	}
}

func (b Builder) column(day time.Time, events []api.Event) Column {
	col := Column{Date: day, IsToday: calendar.SameDay(day, b.Now.In(day.Location()))}
	for _, e := range events {
		col.Blocks = append(col.Blocks, b.block(e))
	}
	return col
}

func (b Builder) Day(current time.Time, events []api.Event) DayLayout {
	day := calendar.StartOfDay(current)
	return DayLayout{
		Title:  calendar.Title(calendar.ViewDay, current, b.WeekStart),
		Hours:  calendar.HourLabels(),
		Column: b.column(day, calendar.OnDay(day, events, eventStart)),
	}
}

func (b Builder) Week(current time.Time, events []api.Event) WeekLayout {
	days := calendar.WeekDays(current, b.WeekStart)
	buckets := calendar.BucketByDay(days, events, eventStart)
	layout := WeekLayout{
		Title:   calendar.Title(calendar.ViewWeek, current, b.WeekStart),
		Hours:   calendar.HourLabels(),
		Columns: make([]Column, 0, len(days)),
	}
	for _, day := range days {
		layout.Columns = append(layout.Columns, b.column(day, buckets[calendar.DayKey(day)]))
	}
	return layout
}

func (b Builder) Month(current time.Time, events []api.Event) MonthLayout {
	weeks := calendar.MonthWeeks(current, b.WeekStart)
	layout := MonthLayout{
		Title:    calendar.Title(calendar.ViewMonth, current, b.WeekStart),
		Weekdays: calendar.WeekdayNames(b.WeekStart),
		Weeks:    make([][]MonthCell, 0, len(weeks)),
	}
	now := b.Now.In(current.Location())
	for _, week := range weeks {
		buckets := calendar.BucketByDay(week, events, eventStart)
		row := make([]MonthCell, 0, len(week))
		for _, day := range week {
			dayEvents := buckets[calendar.DayKey(day)]
			cell := MonthCell{
				Date:    day,
				InMonth: calendar.SameMonth(day, current),
				IsToday: calendar.SameDay(day, now),
			}
			for i, e := range dayEvents {
				if i == MonthCellLimit {
					cell.More = len(dayEvents) - MonthCellLimit
					break
				}
				cell.Events = append(cell.Events, b.block(e))
			}
			row = append(row, cell)
		}
		layout.Weeks = append(layout.Weeks, row)
	}
	return layout
}

// BuildSidebar groups the unfiltered event list under each category and
// takes the first few as the recent list.
func BuildSidebar(events []api.Event, selected calendar.Category) Sidebar {
	byCategory := make(map[calendar.Category][]api.Event)
	for _, e := range events {
		c := calendar.Category(e.Category)
		byCategory[c] = append(byCategory[c], e)
	}

	var sidebar Sidebar
	for _, title := range calendar.Sections {
		section := SidebarSection{Title: title}
		for _, info := range calendar.CategoriesIn(title) {
			section.Categories = append(section.Categories, SidebarCategory{
				Info:     info,
				Selected: info.ID == selected,
				Events:   byCategory[info.ID],
			})
		}
		sidebar.Sections = append(sidebar.Sections, section)
	}
	sidebar.Recent = events[:min(len(events), RecentLimit)]
	return sidebar
}
