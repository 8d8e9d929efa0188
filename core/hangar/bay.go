// Package hangar assigns active aircraft to a fixed topology of five
// physical bays, one independent computation per period. Aircraft that
// cannot be placed are reported as conflicts, never as errors.
package hangar

import (
	"github.com/citadelmro/capplan/core/model"
)

// BayID names one of the five physical slots.
type BayID int

const (
	BayH1 BayID = iota
	BayH2
	BayD1
	BayD2
	BayD3
)

// NumBays is the size of the fixed topology.
const NumBays = 5

// String returns the slot name.
func (b BayID) String() string {
	switch b {
	case BayH1:
		return "H1"
	case BayH2:
		return "H2"
	case BayD1:
		return "D1"
	case BayD2:
		return "D2"
	case BayD3:
		return "D3"
	default:
		return "unknown"
	}
}

// ParseBayID converts a slot name into a BayID.
func ParseBayID(s string) (BayID, bool) {
	switch s {
	case "H1":
		return BayH1, true
	case "H2":
		return BayH2, true
	case "D1":
		return BayD1, true
	case "D2":
		return BayD2, true
	case "D3":
		return BayD3, true
	}
	return 0, false
}

// BayState is the per-period occupancy kind of a bay. A bay transitions
// away from StateEmpty at most once per period.
type BayState int

const (
	StateEmpty BayState = iota
	StateHeavy
	StateM757
	StateSmall1
	StateSplit
)

// String returns a display name for the state.
func (s BayState) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateHeavy:
		return "HEAVY"
	case StateM757:
		return "757"
	case StateSmall1:
		return "SMALL"
	case StateSplit:
		return "SPLIT"
	default:
		return "unknown"
	}
}

// Aircraft is the planner's view of an active project.
type Aircraft struct {
	Number   string          `json:"number"`
	Customer string          `json:"customer"`
	Model    string          `json:"model"`
	Class    model.SizeClass `json:"class"`
}

// Bay is one slot's occupancy for a single period.
type Bay struct {
	ID        BayID      `json:"id"`
	State     BayState   `json:"state"`
	Occupants []Aircraft `json:"occupants"`
}

func (b Bay) empty() bool { return b.State == StateEmpty }

// splitRoom reports whether the bay is split with space left.
func (b Bay) splitRoom() bool { return b.State == StateSplit && len(b.Occupants) < 2 }

// stateFor maps an aircraft class onto the single-occupant bay state
// used when a bay is taken whole.
func stateFor(c model.SizeClass) BayState {
	switch c {
	case model.SizeHeavy:
		return StateHeavy
	case model.SizeM757:
		return StateM757
	default:
		return StateSmall1
	}
}
