package hangar

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	plansComputed     prometheus.Counter
	conflictsReported prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter) {
	plans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hangar_plans_computed_total",
		Help: "Number of hangar plans computed",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hangar_conflicts_total",
		Help: "Number of aircraft reported as unplaceable",
	})
	return plans, conflicts
}

func init() {
	plansComputed, conflictsReported = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers hangar metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(plansComputed, conflictsReported)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	plansComputed, conflictsReported = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
