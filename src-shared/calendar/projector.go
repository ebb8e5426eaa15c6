package calendar

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultRowHeight = 60.0
	DefaultMinHeight = 20.0
	HoursPerDay      = 24
)

type Geometry struct {
	Top    float64
	Height float64
}

type Projector struct {
	RowHeight float64 // units per hour
	MinHeight float64 // floor so short events stay clickable
}

func NewProjector() Projector {
	return Projector{RowHeight: DefaultRowHeight, MinHeight: DefaultMinHeight}
}

// Project maps a start/end pair onto the hour grid. Both times are read in
// their own location, so callers convert to the display zone first. An end
// that falls on a later day, or before start, collapses to MinHeight.
func (p Projector) Project(start, end time.Time) Geometry {
	rowHeight := p.RowHeight
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	startHour := fractionalHour(start)
	endHour := fractionalHour(end)

	return Geometry{
		Top:    startHour * rowHeight,
		Height: math.Max((endHour-startHour)*rowHeight, p.MinHeight),
	}
}

func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// SameDay reports calendar-day equality, evaluated in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OnDay returns the events whose start falls on day. An event that runs past
// midnight is only listed under the day it starts.
func OnDay[E any](day time.Time, events []E, start func(E) time.Time) []E {
	out := make([]E, 0)
	for _, e := range events {
		if SameDay(day, start(e)) {
			out = append(out, e)
		}
	}
	return out
}

// BucketByDay groups events under each of days, keyed by DayKey.
func BucketByDay[E any](days []time.Time, events []E, start func(E) time.Time) map[string][]E {
	buckets := make(map[string][]E, len(days))
	for _, day := range days {
		buckets[DayKey(day)] = OnDay(day, events, start)
	}
	return buckets
}

func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// HourLabel renders a grid row header on a 12-hour clock: "12 AM", "1 AM", ... "11 PM".
func HourLabel(hour int) string {
	hour = ((hour % HoursPerDay) + HoursPerDay) % HoursPerDay
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

func HourLabels() []string {
	labels := make([]string, HoursPerDay)
	for h := range labels {
		labels[h] = HourLabel(h)
	}
	return labels
}

// TimeLabel is the per-event start label, e.g. "9:05 AM".
func TimeLabel(t time.Time) string {
	return t.Format("3:04 PM")
}
