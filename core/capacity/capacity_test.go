package capacity

import (
	"math"
	"testing"
	"time"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/model"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		in, want Params
	}{
		{Params{ProductivityFactor: 0.85, HoursPerFTE: 40}, Params{ProductivityFactor: 0.85, HoursPerFTE: 40}},
		{Params{ProductivityFactor: 0.10, HoursPerFTE: 40}, Params{ProductivityFactor: 0.50, HoursPerFTE: 40}},
		{Params{ProductivityFactor: 1.50, HoursPerFTE: 40}, Params{ProductivityFactor: 1.00, HoursPerFTE: 40}},
		{Params{ProductivityFactor: 0.85, HoursPerFTE: 10}, Params{ProductivityFactor: 0.85, HoursPerFTE: 30}},
		{Params{ProductivityFactor: 0.85, HoursPerFTE: 80}, Params{ProductivityFactor: 0.85, HoursPerFTE: 60}},
	}
	for _, c := range cases {
		if got := c.in.Clamp(); got != c.want {
			t.Errorf("Clamp(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestWeekly(t *testing.T) {
	dept := model.Department{Key: "mech", Headcount: 12}
	got := Weekly(dept, Params{ProductivityFactor: 0.85, HoursPerFTE: 40})
	if math.Abs(got-408) > 1e-9 {
		t.Errorf("Weekly = %f, want 408", got)
	}
}

func TestMonthlyScalesByWorkdays(t *testing.T) {
	dept := model.Department{Key: "mech", Headcount: 10}
	params := Params{ProductivityFactor: 1.0, HoursPerFTE: 40}
	// November 2025 has 20 workdays: exactly four weeks of capacity.
	nov := calendar.Period{
		Start:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		Granularity: calendar.Monthly,
	}
	got := ForPeriod(dept, nov, params)
	if math.Abs(got-1600) > 1e-9 {
		t.Errorf("November capacity = %f, want 1600", got)
	}
}

func TestUtilization(t *testing.T) {
	if got := Utilization(50, 100); got != 50 {
		t.Errorf("Utilization(50,100) = %f, want 50", got)
	}
	if got := Utilization(150, 100); got != 150 {
		t.Errorf("Utilization(150,100) = %f, want 150", got)
	}
	if got := Utilization(50, 0); got != 0 {
		t.Errorf("zero capacity must yield 0 utilization, got %f", got)
	}
}

func TestHigherProductivityLowersUtilization(t *testing.T) {
	dept := model.Department{Key: "mech", Headcount: 10}
	load := 300.0
	low := Utilization(load, Weekly(dept, Params{ProductivityFactor: 0.60, HoursPerFTE: 40}))
	high := Utilization(load, Weekly(dept, Params{ProductivityFactor: 0.95, HoursPerFTE: 40}))
	if high >= low {
		t.Errorf("raising productivity must lower utilization: %f >= %f", high, low)
	}
}

func TestSummarize(t *testing.T) {
	periods := []calendar.Period{
		{Start: time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), Granularity: calendar.Weekly},
		{Start: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), Granularity: calendar.Weekly},
		{Start: time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), Granularity: calendar.Weekly},
	}
	load := []float64{100, 500, 200}
	cap := []float64{400, 400, 400}
	s := Summarize(periods, load, cap, 400)
	if s.PeakPeriod != "2025-11-10" {
		t.Errorf("peak period = %s, want 2025-11-10", s.PeakPeriod)
	}
	if math.Abs(s.PeakUtilization-125) > 1e-9 {
		t.Errorf("peak utilization = %f, want 125", s.PeakUtilization)
	}
	if s.WorstPeriod != "2025-11-03" {
		t.Errorf("worst period = %s, want 2025-11-03", s.WorstPeriod)
	}
	if math.Abs(s.WorstOverUnder-(-300)) > 1e-9 {
		t.Errorf("worst over/under = %f, want -300", s.WorstOverUnder)
	}
	if s.OverloadedCount != 1 {
		t.Errorf("overloaded count = %d, want 1", s.OverloadedCount)
	}
	if math.Abs(s.MeanLoad-800.0/3) > 1e-9 {
		t.Errorf("mean load = %f", s.MeanLoad)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil, 400)
	if s.PeakUtilization != 0 || s.OverloadedCount != 0 {
		t.Errorf("empty series must produce a zero summary: %+v", s)
	}
	if s.WeeklyCapacity != 400 {
		t.Errorf("weekly capacity headline lost: %f", s.WeeklyCapacity)
	}
}
