package rules

import (
	"fmt"
	"time"
)

// RestrictionType is the category of parking impact a parsed rule encodes.
type RestrictionType string

const (
	RestrictionNoStopping     RestrictionType = "NO_STOPPING"
	RestrictionNoStanding     RestrictionType = "NO_STANDING"
	RestrictionNoParking      RestrictionType = "NO_PARKING"
	RestrictionStreetCleaning RestrictionType = "STREET_CLEANING"
	RestrictionMetered        RestrictionType = "METERED"
	RestrictionUnknown        RestrictionType = "UNKNOWN"
)

// Forbidding reports whether an active rule of this type makes parking illegal.
// Metered rules never forbid on their own.
func (t RestrictionType) Forbidding() bool {
	switch t {
	case RestrictionNoStopping, RestrictionNoStanding, RestrictionNoParking, RestrictionStreetCleaning:
		return true
	}
	return false
}

// Minute is a wall-clock time of day expressed as minutes since midnight.
type Minute int

// MinuteOf converts hour/minute to a Minute value.
func MinuteOf(hour, min int) Minute {
	return Minute(hour*60 + min)
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MarshalJSON renders the minute as an "HH:MM" string.
func (m Minute) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts the "HH:MM" form produced by MarshalJSON.
func (m *Minute) UnmarshalJSON(b []byte) error {
	var h, mm int
	if _, err := fmt.Sscanf(string(b), `"%d:%d"`, &h, &mm); err != nil {
		return fmt.Errorf("invalid time of day %s: %w", b, err)
	}
	*m = MinuteOf(h, mm)
	return nil
}

// TimeRange is an ordered start/end pair of wall-clock times. Start greater
// than End is a legitimate overnight window spanning midnight, not an error.
type TimeRange struct {
	Start Minute `json:"start"`
	End   Minute `json:"end"`
}

// Contains reports whether the given time of day falls inside the window,
// bounds inclusive. Overnight windows wrap past midnight.
func (tr TimeRange) Contains(at Minute) bool {
	if tr.Start <= tr.End {
		return tr.Start <= at && at <= tr.End
	}
	return at >= tr.Start || at <= tr.End
}

// Rule is the structured result of parsing one regulation description string.
// It is a pure value: created fresh on every Parse call, never mutated after.
type Rule struct {
	OriginalText string          `json:"original_text"`
	Type         RestrictionType `json:"restriction_type"`
	// Days the rule applies to, Monday=0 through Sunday=6, ascending and
	// deduplicated. Empty means no day restriction was detected, which is
	// NOT the same as "every day": day gating only activates when non-empty.
	Days       []int      `json:"days"`
	TimeRange  *TimeRange `json:"time_range,omitempty"`
	Exceptions []int      `json:"exceptions"`
	HoursLimit int        `json:"hours_limit,omitempty"`
	Confidence float64    `json:"confidence"`
	Parsed     bool       `json:"is_parsed"`
}

// AvailabilityResult is the evaluator's verdict for a set of rules at one instant.
type AvailabilityResult struct {
	Allowed     bool            `json:"allowed"`
	Restriction RestrictionType `json:"restriction_type,omitempty"`
	Confidence  float64         `json:"confidence"`
}

// WeekdayIndex converts a timestamp's weekday to the Monday=0…Sunday=6
// indexing used throughout this package (Go's time.Weekday is Sunday=0).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// MinuteOfDay extracts the wall-clock time of day from a timestamp.
func MinuteOfDay(t time.Time) Minute {
	return MinuteOf(t.Hour(), t.Minute())
}
