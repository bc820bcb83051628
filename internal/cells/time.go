package cells

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the layout used for the Date column and date-window filters.
const DateLayout = "2006-01-02"

// timeLayouts are tried in order. Fractional seconds are accepted after the
// seconds field even when a layout does not list them.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// spreadsheet serial dates between 1954 and 2173 are accepted; smaller or
// larger numbers are more likely meter readings pasted into the wrong cell.
const (
	minSerialDate = 20000
	maxSerialDate = 100000
)

// ParseTime parses a timestamp or date cell. Naive timestamps are treated as
// UTC. The second result is false when the text is not a recognisable instant.
func ParseTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > minSerialDate && serial < maxSerialDate {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a date cell and truncates it to midnight UTC.
func ParseDate(raw string) (time.Time, bool) {
	t, ok := ParseTime(raw)
	if !ok {
		return time.Time{}, false
	}
	return Day(t), true
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Instant is a point in time that may be undefined.
type Instant struct {
	Time  time.Time
	Valid bool
}

// At returns a defined Instant in UTC.
func At(t time.Time) Instant {
	return Instant{Time: t.UTC(), Valid: true}
}

// ParseInstant is ParseTime returning an Instant.
func ParseInstant(raw string) Instant {
	t, ok := ParseTime(raw)
	return Instant{Time: t, Valid: ok}
}

// ParseDay is ParseDate returning an Instant.
func ParseDay(raw string) Instant {
	t, ok := ParseDate(raw)
	return Instant{Time: t, Valid: ok}
}

// Before orders undefined instants first.
func (i Instant) Before(o Instant) bool {
	switch {
	case !i.Valid:
		return o.Valid
	case !o.Valid:
		return false
	}
	return i.Time.Before(o.Time)
}

// MarshalJSON encodes undefined as null and defined instants as RFC 3339.
func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return i.Time.MarshalJSON()
}
