// Package capacity converts department headcount into period capacity
// and derives utilization percentages against aggregated load.
package capacity

import (
	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/model"
)

// Parameter domains. Out-of-range values are clamped, never rejected.
const (
	MinProductivity = 0.50
	MaxProductivity = 1.00
	MinHoursPerFTE  = 30
	MaxHoursPerFTE  = 60
)

// Params are the global tuning knobs shared by every computation.
type Params struct {
	ProductivityFactor float64 `json:"productivity_factor"`
	HoursPerFTE        float64 `json:"hours_per_fte"`
}

// DefaultParams mirrors the dashboard defaults.
func DefaultParams() Params {
	return Params{ProductivityFactor: 0.85, HoursPerFTE: 40}
}

// Clamp forces both parameters into their valid domain.
func (p Params) Clamp() Params {
	if p.ProductivityFactor < MinProductivity {
		p.ProductivityFactor = MinProductivity
	}
	if p.ProductivityFactor > MaxProductivity {
		p.ProductivityFactor = MaxProductivity
	}
	if p.HoursPerFTE < MinHoursPerFTE {
		p.HoursPerFTE = MinHoursPerFTE
	}
	if p.HoursPerFTE > MaxHoursPerFTE {
		p.HoursPerFTE = MaxHoursPerFTE
	}
	return p
}

// Weekly returns the constant weekly capacity for a department.
func Weekly(dept model.Department, params Params) float64 {
	params = params.Clamp()
	return float64(dept.Headcount) * params.HoursPerFTE * params.ProductivityFactor
}

// ForPeriod returns the department capacity for one period. Monthly
// periods scale the weekly figure by workday count.
func ForPeriod(dept model.Department, period calendar.Period, params Params) float64 {
	weekly := Weekly(dept, params)
	if period.Granularity == calendar.Monthly {
		return weekly / 5 * float64(period.Workdays())
	}
	return weekly
}

// Series returns the capacity value for every period.
func Series(dept model.Department, periods []calendar.Period, params Params) []float64 {
	out := make([]float64, len(periods))
	for i, p := range periods {
		out[i] = ForPeriod(dept, p, params)
	}
	return out
}

// Utilization returns 100*load/capacity, with zero capacity reported as
// zero utilization rather than a division error.
func Utilization(load, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return 100 * load / capacity
}

// UtilizationSeries derives per-period utilization from parallel load
// and capacity series.
func UtilizationSeries(load, capacity []float64) []float64 {
	out := make([]float64, len(load))
	for i := range load {
		if i < len(capacity) {
			out[i] = Utilization(load[i], capacity[i])
		}
	}
	return out
}
