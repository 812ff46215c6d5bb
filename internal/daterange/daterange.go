// Package daterange parses and defaults the start/end query parameters used by
// the training listings.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/mansoorceksport/coachbook/internal/domain"
)

const (
	// DateLayout is the day granularity wire format.
	DateLayout = "2006-01-02"

	// DefaultDateWindow is how far back a day range reaches when start is absent.
	DefaultDateWindow = 30 * 24 * time.Hour
	// DefaultDatetimeWindow is the length of a datetime range when a bound is absent.
	DefaultDatetimeWindow = 5 * 24 * time.Hour

	day = 24 * time.Hour
)

// naive layouts carry no offset and are read as UTC
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD value as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// ParseDatetime parses an ISO-8601 datetime. Values with an offset keep it,
// values without one are taken as UTC.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a valid datetime: %q", s)
}

// ParseDateRange resolves a day granularity range. end defaults to today (UTC),
// start to end minus 30 days. The returned End is one day after the requested
// end so the last day is included.
func ParseDateRange(start, end string, now time.Time) (Range, error) {
	verr := domain.NewValidationError(domain.LocationQuery)

	var r Range
	var err error
	if end != "" {
		if r.End, err = ParseDate(end); err != nil {
			verr.Add("end", "Not a valid date.")
		}
	} else {
		r.End = truncateDay(now)
	}

	if start != "" {
		if r.Start, err = ParseDate(start); err != nil {
			verr.Add("start", "Not a valid date.")
		}
	} else {
		r.Start = r.End.Add(-DefaultDateWindow)
	}

	if verr.HasErrors() {
		return Range{}, verr
	}
	if r.Start.After(r.End) {
		return Range{}, verr.Add("_schema", "The start date must be before the end date.")
	}

	r.End = r.End.Add(day)
	return r, nil
}

// ParseDatetimeRange resolves a sub-day range over an upcoming window:
// no bounds gives [now, now+5d), a single bound is extended by 5 days in the
// missing direction. When both bounds share an offset they are converted to
// UTC, otherwise they are left as given.
func ParseDatetimeRange(start, end string, now time.Time) (Range, error) {
	verr := domain.NewValidationError(domain.LocationQuery)

	var r Range
	var err error
	if start != "" {
		if r.Start, err = ParseDatetime(start); err != nil {
			verr.Add("start", "Not a valid datetime.")
		}
	}
	if end != "" {
		if r.End, err = ParseDatetime(end); err != nil {
			verr.Add("end", "Not a valid datetime.")
		}
	}
	if verr.HasErrors() {
		return Range{}, verr
	}

	switch {
	case start == "" && end == "":
		r.Start = now.UTC()
		r.End = r.Start.Add(DefaultDatetimeWindow)
	case start == "":
		r.Start = r.End.Add(-DefaultDatetimeWindow)
	case end == "":
		r.End = r.Start.Add(DefaultDatetimeWindow)
	}

	if sameOffset(r.Start, r.End) {
		r.Start = r.Start.UTC()
		r.End = r.End.UTC()
	}

	if r.Start.After(r.End) {
		return Range{}, verr.Add("_schema", "The start datetime must be before the end datetime.")
	}
	return r, nil
}

// Day returns the single day range containing date.
func Day(date time.Time) Range {
	start := truncateDay(date)
	return Range{Start: start, End: start.Add(day)}
}

// WeekOf returns [monday, next monday) for the ISO week containing date.
func WeekOf(date time.Time) Range {
	start := truncateDay(date)
	offset := (int(start.Weekday()) + 6) % 7 // monday == 0
	start = start.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 7)}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameOffset(a, b time.Time) bool {
	_, oa := a.Zone()
	_, ob := b.Zone()
	return oa == ob
}
