package hangar

import (
	"testing"
	"time"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/model"
)

func testPeriod() calendar.Period {
	return calendar.Period{
		Start:       time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		Granularity: calendar.Weekly,
	}
}

func small(n string) Aircraft {
	return Aircraft{Number: n, Model: "737-800", Class: model.SizeSmall}
}

func heavy(n string) Aircraft {
	return Aircraft{Number: n, Model: "777-300ER", Class: model.SizeHeavy}
}

func m757(n string) Aircraft {
	return Aircraft{Number: n, Model: "757-200", Class: model.SizeM757}
}

func occupants(b Bay) []string {
	out := make([]string, 0, len(b.Occupants))
	for _, a := range b.Occupants {
		out = append(out, a.Number)
	}
	return out
}

func TestAssignThreeSmalls(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	asn := e.AssignPeriod(testPeriod(), []Aircraft{small("S1"), small("S2"), small("S3")}, nil)

	h1 := asn.Bays[BayH1]
	if h1.State != StateSplit || len(h1.Occupants) != 2 {
		t.Fatalf("H1 = %v with %v, want SPLIT holding 2", h1.State, occupants(h1))
	}
	if h1.Occupants[0].Number != "S1" || h1.Occupants[1].Number != "S2" {
		t.Errorf("H1 occupants = %v, want [S1 S2]", occupants(h1))
	}
	h2 := asn.Bays[BayH2]
	if h2.State != StateSmall1 || len(h2.Occupants) != 1 || h2.Occupants[0].Number != "S3" {
		t.Errorf("H2 = %v with %v, want SMALL holding S3", h2.State, occupants(h2))
	}
	for _, id := range []BayID{BayD1, BayD2, BayD3} {
		if !asn.Bays[id].empty() {
			t.Errorf("%s should stay empty, got %v", id, asn.Bays[id].State)
		}
	}
	if len(asn.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", asn.Conflicts)
	}
}

func TestAssignThirdHeavyConflicts(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	asn := e.AssignPeriod(testPeriod(), []Aircraft{heavy("V1"), heavy("V2"), heavy("V3")}, nil)

	if asn.Bays[BayH1].State != StateHeavy || asn.Bays[BayH2].State != StateHeavy {
		t.Fatal("both H bays must hold a heavy")
	}
	if len(asn.Conflicts) != 1 || asn.Conflicts[0].Number != "V3" {
		t.Errorf("expected V3 as the only conflict, got %v", asn.Conflicts)
	}
	for _, id := range []BayID{BayD1, BayD2, BayD3} {
		if asn.Bays[id].State == StateHeavy {
			t.Errorf("heavy leaked into %s", id)
		}
	}
}

func Test757PrefersD2(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	asn := e.AssignPeriod(testPeriod(), []Aircraft{m757("B1"), m757("B2")}, nil)
	if asn.Bays[BayD2].State != StateM757 {
		t.Errorf("first 757 should land in D2, got %v", asn.Bays[BayD2].State)
	}
	if asn.Bays[BayD1].State != StateM757 {
		t.Errorf("second 757 should land in D1, got %v", asn.Bays[BayD1].State)
	}
}

func TestOverridePinWins(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	overrides := []Override{{AircraftNumber: "S1", Slot: "D3"}}
	asn := e.AssignPeriod(testPeriod(), []Aircraft{small("S1"), small("S2")}, overrides)

	d3 := asn.Bays[BayD3]
	if d3.State != StateSmall1 || len(d3.Occupants) != 1 || d3.Occupants[0].Number != "S1" {
		t.Fatalf("pinned aircraft must occupy D3, got %v with %v", d3.State, occupants(d3))
	}
	// The remaining single small takes a whole bay.
	h1 := asn.Bays[BayH1]
	if h1.State != StateSmall1 || h1.Occupants[0].Number != "S2" {
		t.Errorf("S2 should take H1 whole, got %v with %v", h1.State, occupants(h1))
	}
	if len(asn.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", asn.Conflicts)
	}
}

func TestOverrideHeavyOutsideHBaysConflicts(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	overrides := []Override{{AircraftNumber: "V1", Slot: "D1"}}
	asn := e.AssignPeriod(testPeriod(), []Aircraft{heavy("V1")}, overrides)
	if len(asn.Conflicts) != 1 || asn.Conflicts[0].Number != "V1" {
		t.Fatalf("heavy pinned to a D bay must conflict, got %v", asn.Conflicts)
	}
	if !asn.Bays[BayD1].empty() {
		t.Error("D1 must stay empty after the rejected pin")
	}
}

func TestOverrideOccupiedSlotConflicts(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	overrides := []Override{
		{AircraftNumber: "S1", Slot: "D3"},
		{AircraftNumber: "S2", Slot: "D3"},
	}
	asn := e.AssignPeriod(testPeriod(), []Aircraft{small("S1"), small("S2")}, overrides)
	if asn.Bays[BayD3].Occupants[0].Number != "S1" {
		t.Fatal("first pin must win D3")
	}
	if len(asn.Conflicts) != 1 || asn.Conflicts[0].Number != "S2" {
		t.Errorf("second pin to the same slot must conflict, got %v", asn.Conflicts)
	}
}

func TestOverrideDateWindow(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	overrides := []Override{{
		AircraftNumber: "S1",
		Slot:           "D3",
		From:           time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}}
	asn := e.AssignPeriod(testPeriod(), []Aircraft{small("S1")}, overrides)
	if !asn.Bays[BayD3].empty() {
		t.Error("an override outside its date window must not pin")
	}
	if asn.Bays[BayH1].State != StateSmall1 {
		t.Error("aircraft should fall through to automatic placement")
	}
}

func TestSevenSmallsUseOneDSplit(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	active := []Aircraft{
		small("S1"), small("S2"), small("S3"), small("S4"),
		small("S5"), small("S6"), small("S7"),
	}
	asn := e.AssignPeriod(testPeriod(), active, nil)

	if asn.Bays[BayH1].State != StateSplit || asn.Bays[BayH2].State != StateSplit {
		t.Fatal("both H bays should split for seven smalls")
	}
	if asn.Bays[BayD1].State != StateSplit {
		t.Errorf("D1 should take the single D split, got %v", asn.Bays[BayD1].State)
	}
	if asn.Bays[BayD2].State == StateSplit {
		t.Error("D1 and D2 must never both split in the same period")
	}
	if asn.Bays[BayD3].State != StateSmall1 {
		t.Errorf("seventh small should take D3 whole, got %v", asn.Bays[BayD3].State)
	}
	if len(asn.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", asn.Conflicts)
	}
	placed := 0
	for _, b := range asn.Bays {
		if len(b.Occupants) > 2 {
			t.Errorf("%s holds %d aircraft", b.ID, len(b.Occupants))
		}
		placed += len(b.Occupants)
	}
	if placed != 7 {
		t.Errorf("placed %d of 7 aircraft", placed)
	}
}

func TestMixedFleetConflictCompleteness(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	active := []Aircraft{
		heavy("V1"), heavy("V2"),
		m757("B1"), m757("B2"),
		small("S1"), small("S2"), small("S3"), small("S4"),
	}
	asn := e.AssignPeriod(testPeriod(), active, nil)

	// Heavies fill H1/H2, 757s fill D2/D1, one small takes D3 whole and
	// the rest have nowhere to go.
	if asn.Bays[BayH1].State != StateHeavy || asn.Bays[BayH2].State != StateHeavy {
		t.Error("heavies must occupy the H bays")
	}
	if asn.Bays[BayD2].State != StateM757 || asn.Bays[BayD1].State != StateM757 {
		t.Error("757s must occupy D2 then D1")
	}
	if asn.Bays[BayD3].State != StateSmall1 {
		t.Errorf("D3 = %v, want SMALL", asn.Bays[BayD3].State)
	}
	placed := 0
	for _, b := range asn.Bays {
		placed += len(b.Occupants)
	}
	if placed+len(asn.Conflicts) != len(active) {
		t.Errorf("placed %d + conflicts %d != %d active", placed, len(asn.Conflicts), len(active))
	}
	if len(asn.Conflicts) != 3 {
		t.Errorf("expected 3 small conflicts, got %d", len(asn.Conflicts))
	}
}

func TestActiveAircraftFiltering(t *testing.T) {
	period := testPeriod()
	start, _ := period.Bounds()
	mk := func(num, mdl string, cat model.Category, offsite bool) model.Project {
		return model.Project{
			Number:        num,
			AircraftModel: mdl,
			Induction:     start.AddDate(0, 0, -2),
			Delivery:      start.AddDate(0, 0, 10),
			Category:      cat,
			Offsite:       offsite,
		}
	}
	confirmed := []model.Project{
		mk("C1", "737-800", model.CategoryConfirmed, false),
		mk("C2", "Gulfstream G650", model.CategoryConfirmed, false), // unclassified
		mk("C3", "737-800", model.CategoryConfirmed, true),          // offsite
		{Number: "C4", AircraftModel: "737-800"},                    // missing dates
	}
	potential := []model.Project{mk("P1", "757-200", model.CategoryPotential, false)}
	gone := []model.Project{{
		Number:        "C5",
		AircraftModel: "737-800",
		Induction:     start.AddDate(0, 0, -30),
		Delivery:      start.AddDate(0, 0, -20),
	}}

	got := ActiveAircraft(period, false, confirmed, potential, gone)
	if len(got) != 1 || got[0].Number != "C1" {
		t.Fatalf("expected only C1 active, got %v", got)
	}
	got = ActiveAircraft(period, true, confirmed, potential)
	if len(got) != 2 {
		t.Fatalf("expected C1 and P1 with potential included, got %v", got)
	}
}

func TestPlanIndependentPeriods(t *testing.T) {
	ResetMetrics(nil)
	e := NewEngine(nil)
	p1 := testPeriod()
	p2 := calendar.Period{Start: p1.Start.AddDate(0, 0, 7), Granularity: calendar.Weekly}
	start, _ := p1.Bounds()
	projects := []model.Project{{
		Number:        "C1",
		AircraftModel: "747-8F",
		Induction:     start,
		Delivery:      start.AddDate(0, 0, 4), // first week only
	}}
	plan := e.Plan([]calendar.Period{p1, p2}, false, nil, projects)
	if len(plan) != 2 {
		t.Fatalf("expected 2 period assignments, got %d", len(plan))
	}
	if plan[0].Bays[BayH1].State != StateHeavy {
		t.Error("first week should place the heavy in H1")
	}
	for _, b := range plan[1].Bays {
		if !b.empty() {
			t.Errorf("second week must be empty, %s = %v", b.ID, b.State)
		}
	}
}
