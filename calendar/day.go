package calendar

import (
	"fmt"
	"time"
)

// Day is a civil date in the portal's local zone. It is a comparable
// value: two Days for the same calendar date are == regardless of how
// the original time.Time values were expressed.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
}

// DayOf truncates t to its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Dom: d}
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Dom: d}, nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Dom)
}

// Bounds returns the inclusive [start-of-day, end-of-day] window in loc.
func (d Day) Bounds(loc *time.Location) (time.Time, time.Time) {
	from := time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	t := time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	y, m, dd := t.Date()
	return Day{Year: y, Month: m, Dom: dd}
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Dom < other.Dom
}

// DecomposeRange enumerates every calendar day from start's local day
// through end's local day, inclusive, ascending. Time-of-day components
// of both bounds are discarded. start after end is a caller error; the
// bounds are never swapped silently.
func DecomposeRange(start, end time.Time, loc *time.Location) ([]Day, error) {
	first := DayOf(start, loc)
	last := DayOf(end, loc)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidRange, first, last)
	}
	days := []Day{first}
	for d := first; d != last; {
		d = d.Next()
		days = append(days, d)
	}
	return days, nil
}

// RangeKey identifies an inclusive day span. Two requests covering the
// same span produce equal keys regardless of how the range was
// originally expressed, so it is safe as a cache/coalescing map key.
type RangeKey struct {
	First Day
	Last  Day
}

// KeyForDays derives the range key from a decomposed day sequence.
func KeyForDays(days []Day) RangeKey {
	if len(days) == 0 {
		return RangeKey{}
	}
	return RangeKey{First: days[0], Last: days[len(days)-1]}
}

// Spans reports whether the key's inclusive span contains day.
func (k RangeKey) Spans(day Day) bool {
	return !day.Before(k.First) && !k.Last.Before(day)
}

func (k RangeKey) String() string {
	return k.First.String() + ".." + k.Last.String()
}
