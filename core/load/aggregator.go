// Package load distributes project labor hours across weekly or monthly
// periods, producing per-department time series with per-period
// customer/project breakdowns for drill-down.
package load

import (
	"time"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/logger"
	"github.com/citadelmro/capplan/core/model"
)

// Entry is one project's contribution to a period, for drill-down.
type Entry struct {
	Customer string  `json:"customer"`
	Label    string  `json:"label"`
	Hours    float64 `json:"hours"`
}

// Series is the aggregated load for one department over a period sequence.
type Series struct {
	Name      string    `json:"name"`
	Values    []float64 `json:"values"`
	Breakdown [][]Entry `json:"breakdown"`
}

// Aggregator computes department load series. Invalid records are
// skipped and counted, never fatal.
type Aggregator struct {
	Today time.Time
	Log   logger.Logger
}

// New returns an Aggregator anchored at today.
func New(today time.Time, log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Aggregator{Today: today, Log: log}
}

// Build aggregates one dataset over the given periods for a department.
// Actual projects are truncated at today; confirmed and potential use
// their full span.
func (a *Aggregator) Build(dept model.Department, projects []model.Project, periods []calendar.Period) Series {
	s := Series{
		Name:      dept.Name,
		Values:    make([]float64, len(periods)),
		Breakdown: make([][]Entry, len(periods)),
	}
	skipped := 0
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			skipped++
			continue
		}
		hours := p.HoursFor(dept.Key)
		if hours <= 0 {
			continue
		}
		start, end, ok := a.effectiveSpan(p)
		if !ok {
			continue
		}
		a.distribute(&s, p, hours, start, end, periods)
	}
	if skipped > 0 {
		a.Log.Warnf("load: skipped %d invalid records for %s", skipped, dept.Key)
	}
	return s
}

// effectiveSpan returns the span hours are spread over. Actual projects
// that have not started yet contribute nothing, and running ones are
// truncated at today.
func (a *Aggregator) effectiveSpan(p model.Project) (time.Time, time.Time, bool) {
	start, end := p.Induction, p.Delivery
	if p.Category == model.CategoryActual {
		if start.After(a.Today) {
			return time.Time{}, time.Time{}, false
		}
		if end.After(a.Today) {
			end = a.Today
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, false
		}
	}
	return start, end, true
}

func (a *Aggregator) distribute(s *Series, p model.Project, hours float64, start, end time.Time, periods []calendar.Period) {
	first, last, ok := calendar.IndexRange(periods, start, end)
	if !ok {
		return
	}
	if periods[first].Granularity == calendar.Monthly {
		a.distributeMonthly(s, p, hours, start, end, periods, first, last)
		return
	}
	share := hours / float64(last-first+1)
	for i := first; i <= last; i++ {
		s.Values[i] += share
		s.Breakdown[i] = append(s.Breakdown[i], Entry{
			Customer: p.Customer,
			Label:    p.DisplayNumber(),
			Hours:    share,
		})
	}
}

// distributeMonthly prorates hours by each month's overlapping workdays
// relative to the project's total workday span. A zero-workday span
// counts as one day so the division stays defined.
func (a *Aggregator) distributeMonthly(s *Series, p model.Project, hours float64, start, end time.Time, periods []calendar.Period, first, last int) {
	total := calendar.Workdays(start, end)
	if total < 1 {
		total = 1
	}
	for i := first; i <= last; i++ {
		pStart, pEnd := periods[i].Bounds()
		if pStart.Before(start) {
			pStart = start
		}
		if pEnd.After(end) {
			pEnd = end
		}
		overlap := calendar.Workdays(pStart, pEnd)
		if overlap == 0 {
			continue
		}
		share := hours * float64(overlap) / float64(total)
		s.Values[i] += share
		s.Breakdown[i] = append(s.Breakdown[i], Entry{
			Customer: p.Customer,
			Label:    p.DisplayNumber(),
			Hours:    share,
		})
	}
}
