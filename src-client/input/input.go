// Package input turns user-typed strings into event payloads.
package input

import (
	"fmt"
	"strings"
	"time"

	"calendar/src-client/api"
	"calendar/src-shared/calendar"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

type Parser struct {
	when     *when.Parser
	location *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{when: w, location: loc}
}

// Time accepts an absolute timestamp in the parser's zone, or a phrase like
// "tomorrow at 9am" resolved against now.
func (p *Parser) Time(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, p.location); err == nil {
			return t, nil
		}
	}
	result, err := p.when.Parse(raw, now.In(p.location))
	if err != nil {
		return time.Time{}, fmt.Errorf("can't parse date %q: %w", raw, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("can't parse date %q", raw)
	}
	return result.Time, nil
}

// Fields are raw user strings. Blank means "not given".
type Fields struct {
	Title       string
	Start       string
	End         string
	Category    string
	Description string
}

// Build converts fields into a payload, leaving blanks out so an update
// only touches what was typed.
func (p *Parser) Build(f Fields, now time.Time) (api.EventInput, error) {
	var in api.EventInput
	if s := strings.TrimSpace(f.Title); s != "" {
		in.Title = &s
	}
	if strings.TrimSpace(f.Start) != "" {
		t, err := p.Time(f.Start, now)
		if err != nil {
			return in, fmt.Errorf("start: %w", err)
		}
		in.Start = &t
	}
	if strings.TrimSpace(f.End) != "" {
		t, err := p.Time(f.End, now)
		if err != nil {
			return in, fmt.Errorf("end: %w", err)
		}
		in.End = &t
	}
	if s := strings.ToLower(strings.TrimSpace(f.Category)); s != "" {
		if !calendar.Category(s).Valid() {
			return in, fmt.Errorf("category: unknown %q, expected one of %s", s, strings.Join(categoryIDs(), ", "))
		}
		in.Category = &s
	}
	if s := strings.TrimSpace(f.Description); s != "" {
		in.Description = &s
	}
	return in, nil
}

// RequireCreate checks the fields a new event cannot go without.
func RequireCreate(in api.EventInput) error {
	switch {
	case in.Title == nil:
		return fmt.Errorf("title is required")
	case in.Start == nil:
		return fmt.Errorf("start is required")
	case in.End == nil:
		return fmt.Errorf("end is required")
	}
	return nil
}

func categoryIDs() []string {
	var ids []string
	for _, c := range calendar.Categories() {
		ids = append(ids, string(c.ID))
	}
	return ids
}
