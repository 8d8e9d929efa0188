package metrics

import "errors"

// MultiSink fans records out to several sinks, collecting errors.
type MultiSink struct {
	sinks []PlanSink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...PlanSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordPlan forwards to every sink.
func (m *MultiSink) RecordPlan(records []PlanRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordPlan(records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordUtilization forwards to every sink implementing UtilizationRecorder.
func (m *MultiSink) RecordUtilization(samples []UtilizationSample) error {
	var errs []error
	for _, s := range m.sinks {
		if ur, ok := s.(UtilizationRecorder); ok {
			if err := ur.RecordUtilization(samples); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
