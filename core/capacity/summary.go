package capacity

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/citadelmro/capplan/core/calendar"
)

// Summary is the dashboard metric bar: peak utilization, the period with
// the largest over/under against capacity, and the capacity headline.
type Summary struct {
	PeakUtilization  float64 `json:"peak_utilization"`
	PeakPeriod       string  `json:"peak_period"`
	WorstPeriod      string  `json:"worst_period"`
	WorstOverUnder   float64 `json:"worst_over_under"`
	WeeklyCapacity   float64 `json:"weekly_capacity"`
	MeanLoad         float64 `json:"mean_load"`
	MeanUtilization  float64 `json:"mean_utilization"`
	OverloadedCount  int     `json:"overloaded_periods"`
	TotalPeriodCount int     `json:"total_periods"`
}

// Summarize computes headline statistics over parallel load and capacity
// series. Empty series yield a zero summary.
func Summarize(periods []calendar.Period, load, cap []float64, weeklyCap float64) Summary {
	s := Summary{WeeklyCapacity: weeklyCap, TotalPeriodCount: len(periods)}
	if len(load) == 0 || len(load) != len(cap) || len(load) != len(periods) {
		return s
	}
	util := UtilizationSeries(load, cap)
	peakIdx := floats.MaxIdx(util)
	s.PeakUtilization = util[peakIdx]
	s.PeakPeriod = periods[peakIdx].Label()
	s.MeanLoad = stat.Mean(load, nil)
	s.MeanUtilization = stat.Mean(util, nil)

	// Worst period by absolute deviation from capacity.
	worstIdx, worstDev := 0, 0.0
	for i := range load {
		dev := load[i] - cap[i]
		if abs(dev) > abs(worstDev) {
			worstDev, worstIdx = dev, i
		}
		if util[i] > 100 {
			s.OverloadedCount++
		}
	}
	s.WorstPeriod = periods[worstIdx].Label()
	s.WorstOverUnder = worstDev
	return s
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
