package model

import "strings"

// SizeClass categorizes aircraft for hangar bay eligibility.
type SizeClass int

const (
	SizeUnclassified SizeClass = iota
	SizeHeavy
	SizeM757
	SizeSmall
)

// String returns a human-readable representation of the size class.
func (s SizeClass) String() string {
	switch s {
	case SizeHeavy:
		return "HEAVY"
	case SizeM757:
		return "757"
	case SizeSmall:
		return "SMALL"
	default:
		return "unclassified"
	}
}

// Model prefixes per class. The 757 fills a whole bay on its own but
// fits in the D bays, so it gets its own class.
var (
	heavyPrefixes = []string{"747", "767", "777", "787", "A300", "A310", "A330", "A340", "A350", "DC-10", "MD-11"}
	m757Prefixes  = []string{"757"}
	smallPrefixes = []string{"717", "727", "737", "A318", "A319", "A320", "A321", "MD-80", "MD-88", "MD-90", "DC-9", "CRJ", "ERJ", "E170", "E175", "E190", "ATR"}
)

// ClassifyModel maps an aircraft model string onto a SizeClass. Unknown
// models are reported as SizeUnclassified and excluded from planning.
func ClassifyModel(aircraftModel string) SizeClass {
	m := strings.ToUpper(strings.TrimSpace(aircraftModel))
	m = strings.TrimPrefix(m, "BOEING ")
	m = strings.TrimPrefix(m, "B-")
	if len(m) > 1 && m[0] == 'B' && m[1] >= '0' && m[1] <= '9' {
		m = m[1:]
	}
	if m == "" {
		return SizeUnclassified
	}
	for _, p := range m757Prefixes {
		if strings.HasPrefix(m, p) {
			return SizeM757
		}
	}
	for _, p := range heavyPrefixes {
		if strings.HasPrefix(m, p) {
			return SizeHeavy
		}
	}
	for _, p := range smallPrefixes {
		if strings.HasPrefix(m, p) {
			return SizeSmall
		}
	}
	return SizeUnclassified
}
