package whatif

import (
	"testing"
	"time"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/capacity"
	"github.com/citadelmro/capplan/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeks(start time.Time, n int) []calendar.Period {
	out := make([]calendar.Period, n)
	for i := range out {
		out[i] = calendar.Period{Start: start.AddDate(0, 0, 7*i), Granularity: calendar.Weekly}
	}
	return out
}

// One department, 1 FTE at 40h and full productivity: 40h/week, 8h/workday.
var (
	depts  = []model.Department{{Key: "mech", Name: "Mechanics", Headcount: 1}}
	params = capacity.Params{ProductivityFactor: 1.0, HoursPerFTE: 40}
)

func TestComputeFitsWithoutSlip(t *testing.T) {
	calc := &Calculator{Today: date(2025, 10, 1), Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-1",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 14),
			Hours:     map[string]float64{"mech": 60},
		},
		ScopeMultiplier: 1.0,
	}
	periods := weeks(date(2025, 11, 3), 4)
	res := calc.Compute(req, depts, periods, map[string][]float64{"mech": {0, 0, 0, 0}})
	if res.SlipWorkdays != 0 {
		t.Errorf("expected no slip, got %d", res.SlipWorkdays)
	}
	if !res.NewDelivery.Equal(req.Source.Delivery) {
		t.Errorf("delivery must not move: got %s", res.NewDelivery.Format("2006-01-02"))
	}
	imp := res.Impacts[0]
	// Two overlapped weeks of 40h capacity.
	if imp.Headroom != 80 {
		t.Errorf("headroom = %f, want 80", imp.Headroom)
	}
	if imp.Shortfall != 0 {
		t.Errorf("shortfall = %f, want 0", imp.Shortfall)
	}
}

func TestComputeSlip(t *testing.T) {
	calc := &Calculator{Today: date(2025, 10, 1), Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-2",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 14),
			Hours:     map[string]float64{"mech": 100},
		},
		ScopeMultiplier: 1.0,
	}
	periods := weeks(date(2025, 11, 3), 4)
	res := calc.Compute(req, depts, periods, map[string][]float64{"mech": {0, 0, 0, 0}})
	imp := res.Impacts[0]
	if imp.Shortfall != 20 {
		t.Fatalf("shortfall = %f, want 20", imp.Shortfall)
	}
	// 20h shortfall at 8h/workday rounds up to 3 workdays.
	if res.SlipWorkdays != 3 {
		t.Errorf("slip = %d, want 3", res.SlipWorkdays)
	}
	// Fri Nov 14 plus 3 workdays lands on Wed Nov 19.
	if !res.NewDelivery.Equal(date(2025, 11, 19)) {
		t.Errorf("new delivery = %s, want 2025-11-19", res.NewDelivery.Format("2006-01-02"))
	}
}

func TestComputeLeadTimePushesStart(t *testing.T) {
	today := date(2025, 11, 3)
	calc := &Calculator{Today: today, Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-3",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 28),
			Hours:     map[string]float64{"mech": 10},
		},
		ScopeMultiplier: 1.0,
		MinLeadWorkdays: 5,
	}
	periods := weeks(date(2025, 11, 3), 4)
	res := calc.Compute(req, depts, periods, map[string][]float64{"mech": {0, 0, 0, 0}})
	if !res.EarliestStart.Equal(date(2025, 11, 10)) {
		t.Errorf("earliest start = %s, want 2025-11-10", res.EarliestStart.Format("2006-01-02"))
	}
}

func TestComputeOvertimeRaisesHeadroom(t *testing.T) {
	calc := &Calculator{Today: date(2025, 10, 1), Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-4",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 7),
			Hours:     map[string]float64{"mech": 44},
		},
		ScopeMultiplier: 1.0,
		OvertimePct:     10,
	}
	periods := weeks(date(2025, 11, 3), 1)
	res := calc.Compute(req, depts, periods, map[string][]float64{"mech": {0}})
	imp := res.Impacts[0]
	if imp.Headroom != 44 {
		t.Errorf("headroom with 10%% overtime = %f, want 44", imp.Headroom)
	}
	if imp.Shortfall != 0 {
		t.Errorf("shortfall = %f, want 0", imp.Shortfall)
	}
}

func TestComputeScopeMultiplier(t *testing.T) {
	calc := &Calculator{Today: date(2025, 10, 1), Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-5",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 7),
			Hours:     map[string]float64{"mech": 30},
		},
		ScopeMultiplier: 2.0,
	}
	periods := weeks(date(2025, 11, 3), 1)
	res := calc.Compute(req, depts, periods, map[string][]float64{"mech": {0}})
	if got := res.Impacts[0].Hours; got != 60 {
		t.Errorf("scaled hours = %f, want 60", got)
	}
	if got := res.Impacts[0].Shortfall; got != 20 {
		t.Errorf("shortfall = %f, want 20", got)
	}
}

func TestComputeZeroCapacityUnresolvable(t *testing.T) {
	empty := []model.Department{{Key: "avionics", Name: "Avionics", Headcount: 0}}
	calc := &Calculator{Today: date(2025, 10, 1), Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-6",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 7),
			Hours:     map[string]float64{"avionics": 50},
		},
		ScopeMultiplier: 1.0,
	}
	periods := weeks(date(2025, 11, 3), 1)
	res := calc.Compute(req, empty, periods, map[string][]float64{"avionics": {0}})
	if !res.Unresolvable {
		t.Fatal("zero capacity with positive shortfall must be unresolvable")
	}
	if res.Impacts[0].SlipWorkdays != 0 {
		t.Errorf("unresolvable impact must not report a slip, got %d", res.Impacts[0].SlipWorkdays)
	}
}

func TestComputeExistingLoadConsumesHeadroom(t *testing.T) {
	calc := &Calculator{Today: date(2025, 10, 1), Params: params}
	req := Request{
		Source: model.Project{
			Number:    "W-7",
			Induction: date(2025, 11, 3),
			Delivery:  date(2025, 11, 7),
			Hours:     map[string]float64{"mech": 20},
		},
		ScopeMultiplier: 1.0,
	}
	periods := weeks(date(2025, 11, 3), 1)
	res := calc.Compute(req, depts, periods, map[string][]float64{"mech": {35}})
	imp := res.Impacts[0]
	if imp.Headroom != 5 {
		t.Errorf("headroom = %f, want 5", imp.Headroom)
	}
	if imp.Shortfall != 15 {
		t.Errorf("shortfall = %f, want 15", imp.Shortfall)
	}
}
