package hangar

import (
	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/logger"
	"github.com/citadelmro/capplan/core/model"
)

// PeriodAssignment is the planner output for one period: the five bay
// cells plus every aircraft that could not be placed.
type PeriodAssignment struct {
	Period    calendar.Period `json:"period"`
	Bays      [NumBays]Bay    `json:"bays"`
	Conflicts []Aircraft      `json:"conflicts"`
}

// Engine computes bay assignments. Periods are independent: the engine
// holds no state across AssignPeriod calls.
type Engine struct {
	Log logger.Logger
}

// NewEngine returns an Engine.
func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{Log: log}
}

// ActiveAircraft derives the planner input for one period. Confirmed
// projects are always included, potential ones only when requested.
// Offsite, unclassified and invalid records are excluded.
func ActiveAircraft(period calendar.Period, includePotential bool, sets ...[]model.Project) []Aircraft {
	start, end := period.Bounds()
	var out []Aircraft
	for _, set := range sets {
		for _, p := range set {
			if p.Category == model.CategoryPotential && !includePotential {
				continue
			}
			if p.Offsite || p.Validate() != nil || !p.Overlaps(start, end) {
				continue
			}
			class := p.SizeClass()
			if class == model.SizeUnclassified {
				continue
			}
			out = append(out, Aircraft{
				Number:   p.DisplayNumber(),
				Customer: p.Customer,
				Model:    p.AircraftModel,
				Class:    class,
			})
		}
	}
	return out
}

// Plan assigns every given period from the project snapshot.
func (e *Engine) Plan(periods []calendar.Period, includePotential bool, overrides []Override, sets ...[]model.Project) []PeriodAssignment {
	out := make([]PeriodAssignment, 0, len(periods))
	for _, period := range periods {
		active := ActiveAircraft(period, includePotential, sets...)
		out = append(out, e.AssignPeriod(period, active, overrides))
	}
	plansComputed.Inc()
	return out
}

// AssignPeriod places the active aircraft into the bay topology in the
// fixed rule order: manual pins, heavies, 757s, split pre-marking,
// split filling, then small overflow. Every aircraft ends up either in
// a bay or in the conflict list.
func (e *Engine) AssignPeriod(period calendar.Period, active []Aircraft, overrides []Override) PeriodAssignment {
	asn := PeriodAssignment{Period: period}
	for i := range asn.Bays {
		asn.Bays[i] = Bay{ID: BayID(i)}
	}
	remaining := append([]Aircraft(nil), active...)

	remaining = e.applyOverrides(&asn, remaining, overrides)
	remaining = e.placeHeavies(&asn, remaining)
	remaining = e.place757s(&asn, remaining)
	smalls := filterClass(remaining, model.SizeSmall)
	e.markSplits(&asn, len(smalls))
	smalls = e.fillSplits(&asn, smalls)
	e.overflowSmalls(&asn, smalls)

	if n := len(asn.Conflicts); n > 0 {
		conflictsReported.Add(float64(n))
		e.Log.Warnf("hangar: %d unplaceable aircraft in period %s", n, period.Label())
	}
	return asn
}

// applyOverrides pins aircraft before automatic assignment. A pin whose
// bay is taken, or that routes a HEAVY outside H1/H2, is a reported
// conflict for that aircraft.
func (e *Engine) applyOverrides(asn *PeriodAssignment, remaining []Aircraft, overrides []Override) []Aircraft {
	start, end := asn.Period.Bounds()
	for _, o := range overrides {
		if !o.ActiveIn(start, end) {
			continue
		}
		slot, ok := ParseBayID(o.Slot)
		if !ok {
			e.Log.Warnf("hangar: override for %s names unknown slot %q", o.AircraftNumber, o.Slot)
			continue
		}
		idx := -1
		for i, a := range remaining {
			if a.Number == o.AircraftNumber {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}
		ac := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		bay := &asn.Bays[slot]
		if !bay.empty() || (ac.Class == model.SizeHeavy && slot != BayH1 && slot != BayH2) {
			asn.Conflicts = append(asn.Conflicts, ac)
			continue
		}
		bay.State = stateFor(ac.Class)
		bay.Occupants = []Aircraft{ac}
	}
	return remaining
}

// placeHeavies routes HEAVY aircraft to the first empty H bay; no other
// bay accepts them.
func (e *Engine) placeHeavies(asn *PeriodAssignment, remaining []Aircraft) []Aircraft {
	rest := remaining[:0]
	for _, ac := range remaining {
		if ac.Class != model.SizeHeavy {
			rest = append(rest, ac)
			continue
		}
		placed := false
		for _, id := range []BayID{BayH1, BayH2} {
			if bay := &asn.Bays[id]; bay.empty() {
				bay.State = StateHeavy
				bay.Occupants = []Aircraft{ac}
				placed = true
				break
			}
		}
		if !placed {
			asn.Conflicts = append(asn.Conflicts, ac)
		}
	}
	return rest
}

// 757 preference order keeps the H bays free for heavies when possible.
var order757 = []BayID{BayD2, BayD1, BayH1, BayH2, BayD3}

func (e *Engine) place757s(asn *PeriodAssignment, remaining []Aircraft) []Aircraft {
	rest := remaining[:0]
	for _, ac := range remaining {
		if ac.Class != model.SizeM757 {
			rest = append(rest, ac)
			continue
		}
		placed := false
		for _, id := range order757 {
			if bay := &asn.Bays[id]; bay.empty() {
				bay.State = StateM757
				bay.Occupants = []Aircraft{ac}
				placed = true
				break
			}
		}
		if !placed {
			asn.Conflicts = append(asn.Conflicts, ac)
		}
	}
	return rest
}

// markSplits pre-marks empty bays as SPLIT while at least two small
// aircraft still lack accounted capacity. H1 and H2 split independently;
// at most one of D1/D2 may be split in the same period.
func (e *Engine) markSplits(asn *PeriodAssignment, smallCount int) {
	need := smallCount
	for _, id := range []BayID{BayH1, BayH2} {
		if need < 2 {
			return
		}
		if bay := &asn.Bays[id]; bay.empty() {
			bay.State = StateSplit
			need -= 2
		}
	}
	if need < 2 {
		return
	}
	d1, d2 := &asn.Bays[BayD1], &asn.Bays[BayD2]
	switch {
	case d1.empty() && d2.State != StateSplit && d2.State != StateM757:
		d1.State = StateSplit
	case d2.empty() && d1.State != StateSplit && d1.State != StateM757:
		d2.State = StateSplit
	case d1.empty() && d2.empty():
		d1.State = StateSplit
	}
}

// fillSplits pulls from the small queue into every SPLIT bay until it
// holds two aircraft or the queue empties.
func (e *Engine) fillSplits(asn *PeriodAssignment, smalls []Aircraft) []Aircraft {
	for _, id := range []BayID{BayH1, BayH2, BayD1, BayD2} {
		bay := &asn.Bays[id]
		for bay.State == StateSplit && len(bay.Occupants) < 2 && len(smalls) > 0 {
			bay.Occupants = append(bay.Occupants, smalls[0])
			smalls = smalls[1:]
		}
	}
	return smalls
}

// Overflow preference for a lone small aircraft taking a whole bay.
var overflowOrder = []BayID{BayH1, BayH2, BayD3, BayD1, BayD2}

// overflowSmalls places leftovers: first into split bays with room,
// then into the first fully empty bay as a single occupant.
func (e *Engine) overflowSmalls(asn *PeriodAssignment, smalls []Aircraft) {
	for _, ac := range smalls {
		if bay := findBay(asn, func(b Bay) bool { return b.splitRoom() }, BayH1, BayH2, BayD1, BayD2); bay != nil {
			bay.Occupants = append(bay.Occupants, ac)
			continue
		}
		if bay := findBay(asn, Bay.empty, overflowOrder...); bay != nil {
			bay.State = StateSmall1
			bay.Occupants = []Aircraft{ac}
			continue
		}
		asn.Conflicts = append(asn.Conflicts, ac)
	}
}

func findBay(asn *PeriodAssignment, match func(Bay) bool, order ...BayID) *Bay {
	for _, id := range order {
		if match(asn.Bays[id]) {
			return &asn.Bays[id]
		}
	}
	return nil
}

func filterClass(list []Aircraft, class model.SizeClass) []Aircraft {
	var out []Aircraft
	for _, a := range list {
		if a.Class == class {
			out = append(out, a)
		}
	}
	return out
}
