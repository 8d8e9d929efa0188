package metrics

import (
	coremetrics "github.com/citadelmro/capplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records plan outcomes in Prometheus metrics.
type PromSink struct {
	occupancy   *prometheus.GaugeVec
	conflicts   *prometheus.GaugeVec
	utilization *prometheus.GaugeVec
}

// NewPromSink registers plan metrics on the default Prometheus
// registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	occ := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hangar_period_occupancy",
		Help: "Aircraft parked per plan period",
	}, []string{"period"})
	conf := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hangar_period_conflicts",
		Help: "Unplaceable aircraft per plan period",
	}, []string{"period"})
	util := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "department_utilization_percent",
		Help: "Department utilization per period",
	}, []string{"department", "period"})

	if err := reg.Register(occ); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			occ = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conf); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conf = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(util); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			util = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{occupancy: occ, conflicts: conf, utilization: util}, nil
}

// RecordPlan implements coremetrics.PlanSink.
func (s *PromSink) RecordPlan(records []coremetrics.PlanRecord) error {
	for _, r := range records {
		label := r.Period.Label()
		s.occupancy.WithLabelValues(label).Set(float64(r.Occupied))
		s.conflicts.WithLabelValues(label).Set(float64(r.Conflicts))
	}
	return nil
}

// RecordUtilization implements coremetrics.UtilizationRecorder.
func (s *PromSink) RecordUtilization(samples []coremetrics.UtilizationSample) error {
	for _, u := range samples {
		s.utilization.WithLabelValues(u.Department, u.Period.Label()).Set(u.Utilization)
	}
	return nil
}
