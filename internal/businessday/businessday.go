// Package businessday counts working days over inclusive calendar ranges.
package businessday

import "time"

const DateLayout = "2006-01-02"

// DateSet is a set of calendar days. Time of day and location are ignored.
type DateSet map[string]struct{}

func NewDateSet(dates ...time.Time) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

func (s DateSet) Add(d time.Time) {
	s[d.Format(DateLayout)] = struct{}{}
}

func (s DateSet) Contains(d time.Time) bool {
	_, ok := s[d.Format(DateLayout)]
	return ok
}

func (s DateSet) Len() int {
	return len(s)
}

// DateOnly truncates t to midnight UTC of its own calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into a UTC calendar date.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, v)
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Count returns the number of Monday-Friday dates in [start, end] that are
// not in excluded. A nil excluded set is a plain weekday count and
// start after end yields zero.
func Count(start, end time.Time, excluded DateSet) int {
	start, end = DateOnly(start), DateOnly(end)

	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWeekend(d) || excluded.Contains(d) {
			continue
		}
		n++
	}
	return n
}

// Dates lists every calendar date in [start, end].
func Dates(start, end time.Time) []time.Time {
	start, end = DateOnly(start), DateOnly(end)
	if start.After(end) {
		return nil
	}

	out := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// CalendarDays is the inclusive length of [start, end] in days.
func CalendarDays(start, end time.Time) int {
	start, end = DateOnly(start), DateOnly(end)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// YearBounds returns Jan 1 and Dec 31 of year.
func YearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
