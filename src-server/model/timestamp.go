package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a start/end value as it arrives in a request body: an ISO-8601
// string or a number of epoch milliseconds. Parsing is deferred so a bad
// value surfaces as a ValidationError naming the field.
type Timestamp struct {
	raw      string
	isNumber bool
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{raw: t.UTC().Format(time.RFC3339Nano)}
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*ts = Timestamp{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = Timestamp{raw: strings.TrimSpace(s)}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("timestamp must be a string or a number: %w", err)
		}
		*ts = Timestamp{raw: n.String(), isNumber: true}
	}
	return nil
}

// Empty reports whether the value is falsy: absent, "", or 0.
func (ts *Timestamp) Empty() bool {
	if ts == nil || ts.raw == "" {
		return true
	}
	if ts.isNumber {
		f, err := strconv.ParseFloat(ts.raw, 64)
		return err == nil && f == 0
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// maxEpochMilli bounds numeric timestamps to what a JavaScript Date can hold.
const maxEpochMilli = 8.64e15

// Time parses the value. Strings without an offset are read as UTC.
func (ts *Timestamp) Time() (time.Time, error) {
	if ts.Empty() {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ts.isNumber {
		f, err := strconv.ParseFloat(ts.raw, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch milliseconds %q", ts.raw)
		}
		if math.IsNaN(f) || math.Abs(f) > maxEpochMilli {
			return time.Time{}, fmt.Errorf("epoch milliseconds %q out of range", ts.raw)
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts.raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", ts.raw)
}

func (ts *Timestamp) unixMilli(field string) (int64, error) {
	t, err := ts.Time()
	if err != nil {
		return 0, &ValidationError{Field: field, Msg: err.Error()}
	}
	return t.UnixMilli(), nil
}
