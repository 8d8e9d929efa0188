package model

import (
	"fmt"
	"time"
)

// Category identifies which dataset a project belongs to.
type Category int

const (
	CategoryConfirmed Category = iota
	CategoryPotential
	CategoryActual
)

// String returns a human-readable representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryConfirmed:
		return "confirmed"
	case CategoryPotential:
		return "potential"
	case CategoryActual:
		return "actual"
	default:
		return "unknown"
	}
}

// ParseCategory converts a dataset name into a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "confirmed", "projects":
		return CategoryConfirmed, nil
	case "potential":
		return CategoryPotential, nil
	case "actual":
		return CategoryActual, nil
	}
	return 0, fmt.Errorf("unknown dataset %q", s)
}

// Project represents a maintenance visit with per-department labor hours.
type Project struct {
	ID            string
	Number        string
	Customer      string
	AircraftModel string
	Scope         string
	Induction     time.Time
	Delivery      time.Time
	Hours         map[string]float64 // department key -> hours
	Category      Category
	Offsite       bool // excluded from hangar planning
}

// DisplayNumber returns the project number or a dash placeholder.
func (p Project) DisplayNumber() string {
	if p.Number == "" {
		return "—"
	}
	return p.Number
}

// Validate checks that the project record is usable for aggregation.
// Records failing validation are skipped, not fatal.
func (p Project) Validate() error {
	if p.Induction.IsZero() || p.Delivery.IsZero() {
		return fmt.Errorf("project %s: missing induction or delivery date", p.DisplayNumber())
	}
	if p.Delivery.Before(p.Induction) {
		return fmt.Errorf("project %s: delivery precedes induction", p.DisplayNumber())
	}
	for k, h := range p.Hours {
		if h < 0 {
			return fmt.Errorf("project %s: negative hours for %s", p.DisplayNumber(), k)
		}
	}
	return nil
}

// HoursFor returns the hours booked against the given department key.
func (p Project) HoursFor(dept string) float64 {
	return p.Hours[dept]
}

// Overlaps reports whether the project span intersects [start, end].
func (p Project) Overlaps(start, end time.Time) bool {
	return !p.Induction.After(end) && !p.Delivery.Before(start)
}

// SizeClass derives the hangar size class from the aircraft model.
func (p Project) SizeClass() SizeClass {
	return ClassifyModel(p.AircraftModel)
}

// Department represents a labor discipline with its headcount.
type Department struct {
	Key       string
	Name      string
	Headcount int
}

// Validate checks the department record.
func (d Department) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("department: empty key")
	}
	if d.Headcount < 0 {
		return fmt.Errorf("department %s: negative headcount", d.Key)
	}
	return nil
}
