package app

import (
	"time"

	"github.com/citadelmro/capplan/core/hangar"
)

// SnapshotEvent announces a completed repository reload.
type SnapshotEvent struct {
	Projects    int
	Departments int
	At          time.Time
}

// PlanEvent announces a computed hangar plan.
type PlanEvent struct {
	Periods   int
	Conflicts int
	At        time.Time
}

// ConflictEvent carries the unplaceable aircraft of one period.
type ConflictEvent struct {
	Period   string
	Aircraft []hangar.Aircraft
}
