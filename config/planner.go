package config

import (
	"fmt"
	"time"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/capacity"
	"github.com/citadelmro/capplan/core/hangar"
)

// PlannerConfig holds the dashboard tuning knobs and the injected bay
// pin list.
type PlannerConfig struct {
	ProductivityFactor float64          `json:"productivity_factor"`
	HoursPerFTE        float64          `json:"hours_per_fte"`
	Granularity        string           `json:"granularity"`
	IncludePotential   bool             `json:"include_potential"`
	PlanPeriods        int              `json:"plan_periods"`
	Overrides          []OverrideConfig `json:"overrides"`
}

// OverrideConfig pins an aircraft to a bay, optionally for a date range.
type OverrideConfig struct {
	Aircraft string `json:"aircraft"`
	Slot     string `json:"slot"`
	From     string `json:"from"`
	To       string `json:"to"`
}

const dateLayout = "2006-01-02"

// SetDefaults applies the dashboard defaults.
func (c *PlannerConfig) SetDefaults() {
	if c.ProductivityFactor == 0 {
		c.ProductivityFactor = 0.85
	}
	if c.HoursPerFTE == 0 {
		c.HoursPerFTE = 40
	}
	if c.Granularity == "" {
		c.Granularity = "weekly"
	}
	if c.PlanPeriods == 0 {
		c.PlanPeriods = 12
	}
}

// Validate checks enumerations and override dates. Numeric parameters
// are clamped at use sites, not rejected here.
func (c PlannerConfig) Validate() error {
	if _, err := calendar.ParseGranularity(c.Granularity); err != nil {
		return err
	}
	if c.PlanPeriods < 1 {
		return fmt.Errorf("plan_periods must be positive")
	}
	for _, o := range c.Overrides {
		if o.Aircraft == "" {
			return fmt.Errorf("override: aircraft number is required")
		}
		if _, ok := hangar.ParseBayID(o.Slot); !ok {
			return fmt.Errorf("override for %s: unknown slot %q", o.Aircraft, o.Slot)
		}
		for _, d := range []string{o.From, o.To} {
			if d == "" {
				continue
			}
			if _, err := time.Parse(dateLayout, d); err != nil {
				return fmt.Errorf("override for %s: bad date %q", o.Aircraft, d)
			}
		}
	}
	return nil
}

// Params returns the clamped capacity parameters.
func (c PlannerConfig) Params() capacity.Params {
	return capacity.Params{
		ProductivityFactor: c.ProductivityFactor,
		HoursPerFTE:        c.HoursPerFTE,
	}.Clamp()
}

// GranularityValue returns the parsed granularity. Validate must have
// accepted the config first.
func (c PlannerConfig) GranularityValue() calendar.Granularity {
	g, _ := calendar.ParseGranularity(c.Granularity)
	return g
}

// HangarOverrides converts the configured pins into engine overrides.
func (c PlannerConfig) HangarOverrides() []hangar.Override {
	out := make([]hangar.Override, 0, len(c.Overrides))
	for _, o := range c.Overrides {
		ov := hangar.Override{AircraftNumber: o.Aircraft, Slot: o.Slot}
		if o.From != "" {
			ov.From, _ = time.Parse(dateLayout, o.From)
		}
		if o.To != "" {
			ov.To, _ = time.Parse(dateLayout, o.To)
		}
		out = append(out, ov)
	}
	return out
}
