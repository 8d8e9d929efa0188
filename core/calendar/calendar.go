package calendar

import (
	"fmt"
	"time"

	"github.com/citadelmro/capplan/core/model"
)

// Granularity selects the period length used for aggregation.
type Granularity int

const (
	Weekly Granularity = iota
	Monthly
)

// String returns a human-readable representation of the granularity.
func (g Granularity) String() string {
	switch g {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// ParseGranularity converts a configuration value into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Period is a weekly or monthly time bucket. Start is the canonical
// label date: the Monday of the week or the first of the month.
type Period struct {
	Start       time.Time
	Granularity Granularity
}

// Label returns the canonical period label.
func (p Period) Label() string {
	if p.Granularity == Monthly {
		return p.Start.Format("2006-01")
	}
	return p.Start.Format("2006-01-02")
}

// Bounds returns the inclusive start and end dates of the period.
func (p Period) Bounds() (time.Time, time.Time) {
	if p.Granularity == Monthly {
		return p.Start, p.Start.AddDate(0, 1, -1)
	}
	return p.Start, p.Start.AddDate(0, 0, 6)
}

// Contains reports whether d falls inside the period. Boundary dates
// belong to the period.
func (p Period) Contains(d time.Time) bool {
	start, end := p.Bounds()
	return !d.Before(start) && !d.After(end)
}

// Workdays returns the Monday-Friday count of the period, used for
// monthly capacity scaling.
func (p Period) Workdays() int {
	start, end := p.Bounds()
	return Workdays(start, end)
}

// MondayOf returns the Monday on or before d.
func MondayOf(d time.Time) time.Time {
	d = truncate(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// FirstOfMonth returns the first day of the month containing d.
func FirstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Labels builds the ordered period sequence spanning every project in
// the given collections. With no projects it returns the single period
// containing today.
func Labels(g Granularity, today time.Time, sets ...[]model.Project) []Period {
	min, max, ok := dateSpan(sets)
	if !ok {
		min, max = truncate(today), truncate(today)
	}
	var periods []Period
	switch g {
	case Monthly:
		for cur := FirstOfMonth(min); !cur.After(max); cur = cur.AddDate(0, 1, 0) {
			periods = append(periods, Period{Start: cur, Granularity: Monthly})
		}
	default:
		for cur := MondayOf(min); !cur.After(max); cur = cur.AddDate(0, 0, 7) {
			periods = append(periods, Period{Start: cur, Granularity: Weekly})
		}
	}
	return periods
}

// dateSpan scans the collections for the earliest induction and latest
// delivery, ignoring records with unusable dates.
func dateSpan(sets [][]model.Project) (time.Time, time.Time, bool) {
	var min, max time.Time
	found := false
	for _, set := range sets {
		for _, p := range set {
			if p.Induction.IsZero() || p.Delivery.IsZero() || p.Delivery.Before(p.Induction) {
				continue
			}
			if !found || p.Induction.Before(min) {
				min = p.Induction
			}
			if !found || p.Delivery.After(max) {
				max = p.Delivery
			}
			found = true
		}
	}
	return truncate(min), truncate(max), found
}

// Workdays counts Monday-Friday days in [from, to] inclusive.
func Workdays(from, to time.Time) int {
	from, to = truncate(from), truncate(to)
	if to.Before(from) {
		return 0
	}
	n := 0
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		if wd := cur.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// AddWorkdays advances d by n workdays, skipping weekends.
func AddWorkdays(d time.Time, n int) time.Time {
	cur := truncate(d)
	for n > 0 {
		cur = cur.AddDate(0, 0, 1)
		if wd := cur.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	return cur
}

// IndexRange locates the first period whose label is on or after `from`
// and the last whose label is on or before `to`. ok is false when the
// span selects no period.
func IndexRange(periods []Period, from, to time.Time) (int, int, bool) {
	from, to = truncate(from), truncate(to)
	s, e := -1, -1
	for i, p := range periods {
		if s == -1 && !p.Start.Before(from) {
			s = i
		}
		if !p.Start.After(to) {
			e = i
		}
	}
	if s == -1 || e == -1 || e < s {
		return 0, 0, false
	}
	return s, e, true
}
