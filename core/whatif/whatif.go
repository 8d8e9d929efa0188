// Package whatif estimates the schedule impact of inserting a candidate
// project into the confirmed workload. Results are purely advisory; no
// underlying data is mutated.
package whatif

import (
	"math"
	"time"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/capacity"
	"github.com/citadelmro/capplan/core/model"
)

// Request describes the candidate scenario. Source may be an existing
// project or an ad-hoc manual record carrying its own hours.
type Request struct {
	Source            model.Project
	ScopeMultiplier   float64
	MinLeadWorkdays   int
	OvertimePct       float64 // capacity uplift in percent
	InductionOverride time.Time
	DeliveryOverride  time.Time
}

// Impact is the per-department outcome.
type Impact struct {
	Department   string  `json:"department"`
	Hours        float64 `json:"hours"`
	Headroom     float64 `json:"headroom"`
	Shortfall    float64 `json:"shortfall"`
	SlipWorkdays int     `json:"slip_workdays"`
	// Unresolvable marks a department with zero capacity but a positive
	// shortfall: no amount of slip absorbs the hours.
	Unresolvable bool `json:"unresolvable"`
}

// Result is the advisory outcome of a what-if run.
type Result struct {
	EarliestStart     time.Time `json:"earliest_start"`
	RequestedStart    time.Time `json:"requested_start"`
	RequestedDelivery time.Time `json:"requested_delivery"`
	NewDelivery       time.Time `json:"new_delivery"`
	SlipWorkdays      int       `json:"slip_workdays"`
	Unresolvable      bool      `json:"unresolvable"`
	Impacts           []Impact  `json:"impacts"`
}

// Calculator runs impact analysis against a confirmed-load snapshot.
type Calculator struct {
	Today  time.Time
	Params capacity.Params
}

// Compute applies the lead-time, headroom and slip rules. confirmedLoad
// maps department key to the confirmed per-period load series aligned
// with periods.
func (c *Calculator) Compute(req Request, depts []model.Department, periods []calendar.Period, confirmedLoad map[string][]float64) Result {
	mult := req.ScopeMultiplier
	if mult < 0 {
		mult = 0
	}
	lead := req.MinLeadWorkdays
	if lead < 0 {
		lead = 0
	}
	uplift := 1 + math.Max(0, req.OvertimePct)/100

	start := req.Source.Induction
	if !req.InductionOverride.IsZero() {
		start = req.InductionOverride
	}
	delivery := req.Source.Delivery
	if !req.DeliveryOverride.IsZero() {
		delivery = req.DeliveryOverride
	}

	leadReady := calendar.AddWorkdays(c.Today, lead)
	earliest := start
	if leadReady.After(earliest) {
		earliest = leadReady
	}

	res := Result{
		EarliestStart:     earliest,
		RequestedStart:    start,
		RequestedDelivery: delivery,
	}
	params := c.Params.Clamp()
	maxSlip := 0
	for _, d := range depts {
		imp := c.departmentImpact(d, req.Source.HoursFor(d.Key)*mult, earliest, delivery, periods, confirmedLoad[d.Key], params, uplift)
		if imp.SlipWorkdays > maxSlip {
			maxSlip = imp.SlipWorkdays
		}
		if imp.Unresolvable {
			res.Unresolvable = true
		}
		res.Impacts = append(res.Impacts, imp)
	}
	res.SlipWorkdays = maxSlip
	res.NewDelivery = calendar.AddWorkdays(delivery, maxSlip)
	return res
}

func (c *Calculator) departmentImpact(d model.Department, hours float64, start, end time.Time, periods []calendar.Period, load []float64, params capacity.Params, uplift float64) Impact {
	imp := Impact{Department: d.Key, Hours: hours}
	headroom := 0.0
	for i, p := range periods {
		pStart, pEnd := p.Bounds()
		if pEnd.Before(start) || pStart.After(end) {
			continue
		}
		cap := capacity.ForPeriod(d, p, params) * uplift
		used := 0.0
		if i < len(load) {
			used = load[i]
		}
		if room := cap - used; room > 0 {
			headroom += room
		}
	}
	imp.Headroom = headroom
	imp.Shortfall = math.Max(0, hours-headroom)
	if imp.Shortfall == 0 {
		return imp
	}
	capPerWorkday := capacity.Weekly(d, params) * uplift / 5
	if capPerWorkday <= 0 {
		imp.Unresolvable = true
		return imp
	}
	imp.SlipWorkdays = int(math.Ceil(imp.Shortfall / capPerWorkday))
	return imp
}
