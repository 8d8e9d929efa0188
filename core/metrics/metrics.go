// Package metrics defines the sinks that record planning outcomes for
// observability. Sinks are optional; a nil or Nop sink keeps the core
// purely computational.
package metrics

import (
	"time"

	"github.com/citadelmro/capplan/core/calendar"
)

// PlanRecord captures one period of a computed hangar plan.
type PlanRecord struct {
	Period    calendar.Period
	Occupied  int
	Conflicts int
	Computed  time.Time
}

// UtilizationSample captures a department utilization point.
type UtilizationSample struct {
	Department  string
	Period      calendar.Period
	LoadHours   float64
	Capacity    float64
	Utilization float64
	Computed    time.Time
}

// PlanSink records computed plan periods.
type PlanSink interface {
	RecordPlan(records []PlanRecord) error
}

// UtilizationRecorder records utilization samples. Sinks may implement
// it in addition to PlanSink.
type UtilizationRecorder interface {
	RecordUtilization(samples []UtilizationSample) error
}

// NopSink discards every record.
type NopSink struct{}

// RecordPlan implements PlanSink.
func (NopSink) RecordPlan([]PlanRecord) error { return nil }

// RecordUtilization implements UtilizationRecorder.
func (NopSink) RecordUtilization([]UtilizationSample) error { return nil }
