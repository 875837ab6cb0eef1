package rules

import "time"

// Evaluate decides whether parking is allowed under the given rules at the
// given instant. Pure and deterministic; rules are visited in input order.
//
// Aggregation policy, kept bug-for-bug compatible with the source system:
//   - allowed only ever latches from true to false, never back,
//   - the reported restriction is the one from the LAST applicable rule,
//     so a later metered rule overwrites the label of an earlier forbidding
//     rule without clearing allowed=false,
//   - a rule without a parseable time window never takes effect, even when
//     its restriction type was recognized ("NO STANDING ANYTIME" is inert).
func Evaluate(ruleSet []Rule, at time.Time) AvailabilityResult {
	weekday := WeekdayIndex(at)
	timeOfDay := MinuteOfDay(at)

	allowed := true
	var restriction RestrictionType
	var confidences []float64

	for _, r := range ruleSet {
		confidences = append(confidences, r.Confidence)

		// Day gating activates only when the day set is non-empty; an
		// empty set never skips a rule on day grounds.
		if len(r.Days) > 0 && !containsDay(r.Days, weekday) {
			continue
		}
		if containsDay(r.Exceptions, weekday) {
			continue
		}
		if r.TimeRange == nil {
			continue
		}
		if !r.TimeRange.Contains(timeOfDay) {
			continue
		}

		if r.Type.Forbidding() {
			allowed = false
			restriction = r.Type
		} else if r.Type == RestrictionMetered {
			restriction = RestrictionMetered
		}
	}

	return AvailabilityResult{
		Allowed:     allowed,
		Restriction: restriction,
		Confidence:  meanConfidence(confidences),
	}
}

// NextChange would report the next instant at which the Evaluate verdict
// flips. The source system never implemented it; this placeholder keeps the
// extension point and always reports no known change. A full implementation
// would scan every rule's day and time boundaries forward from the given
// instant.
func NextChange(ruleSet []Rule, from time.Time) (time.Time, bool) {
	return time.Time{}, false
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func meanConfidence(confidences []float64) float64 {
	if len(confidences) == 0 {
		return 0.5
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	return sum / float64(len(confidences))
}
