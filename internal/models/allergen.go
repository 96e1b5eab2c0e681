package models

import "time"

// SeverityClass is the coarse three-bucket label derived from a sensitivity level.
type SeverityClass string

const (
	SeverityMild     SeverityClass = "Mild"
	SeverityModerate SeverityClass = "Moderate"
	SeveritySevere   SeverityClass = "Severe"
)

const (
	severeThreshold   = 7.0
	moderateThreshold = 3.0

	// MinLevel and MaxLevel bound a sensitivity level.
	MinLevel = 1.0
	MaxLevel = 10.0
)

// DateLayout is the MM-DD-YYYY layout used for allergen dates written by the merge.
const DateLayout = "01-02-2006"

// ClassifySeverity maps a continuous level to its severity class.
func ClassifySeverity(level float64) SeverityClass {
	if level >= severeThreshold {
		return SeveritySevere
	}
	if level >= moderateThreshold {
		return SeverityModerate
	}
	return SeverityMild
}

// Rank orders classes so the highest can be picked. Unknown classes rank lowest.
func (s SeverityClass) Rank() int {
	switch s {
	case SeveritySevere:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMild:
		return 1
	default:
		return 0
	}
}

// Allergen represents a known allergen in the user's profile.
type Allergen struct {
	Name     string        `json:"name"`
	Level    float64       `json:"level"`
	Severity SeverityClass `json:"severity"`
	Date     string        `json:"date"`
}

// Normalize re-derives the severity class from the level. Any class supplied
// by the caller is discarded.
func (a Allergen) Normalize() Allergen {
	a.Severity = ClassifySeverity(a.Level)
	return a
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidLevel reports whether level lies within [MinLevel, MaxLevel].
func ValidLevel(level float64) bool {
	return level >= MinLevel && level <= MaxLevel
}
