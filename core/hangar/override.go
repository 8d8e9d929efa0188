package hangar

import "time"

// Override pins an aircraft to a specific bay. Without an explicit date
// range the pin follows the project's own induction-delivery span: the
// aircraft is only ever looked up among the period's active set.
type Override struct {
	AircraftNumber string    `json:"aircraft_number"`
	Slot           string    `json:"slot"`
	From           time.Time `json:"from,omitempty"`
	To             time.Time `json:"to,omitempty"`
}

// ActiveIn reports whether the override applies to a period spanning
// [start, end].
func (o Override) ActiveIn(start, end time.Time) bool {
	if !o.From.IsZero() && o.From.After(end) {
		return false
	}
	if !o.To.IsZero() && o.To.Before(start) {
		return false
	}
	return true
}
