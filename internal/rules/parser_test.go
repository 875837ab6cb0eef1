package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func timeRange(start, end Minute) *TimeRange {
	return &TimeRange{Start: start, End: end}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected Rule
	}{
		{
			name: "No parking with weekday range",
			text: "NO PARKING 8AM-6PM MON THRU FRI",
			expected: Rule{
				OriginalText: "NO PARKING 8AM-6PM MON THRU FRI",
				Type:         RestrictionNoParking,
				Days:         []int{0, 1, 2, 3, 4},
				TimeRange:    timeRange(MinuteOf(8, 0), MinuteOf(18, 0)),
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Metered with hours limit and exception",
			text: "2 HOUR PARKING 9AM-7PM EXCEPT SUNDAY",
			expected: Rule{
				OriginalText: "2 HOUR PARKING 9AM-7PM EXCEPT SUNDAY",
				Type:         RestrictionMetered,
				// SUNDAY is picked up by the fallback scan too; the
				// evaluator resolves the overlap in favor of the exception.
				Days:       []int{6},
				TimeRange:  timeRange(MinuteOf(9, 0), MinuteOf(19, 0)),
				Exceptions: []int{6},
				HoursLimit: 2,
				Confidence: 0.9,
				Parsed:     true,
			},
		},
		{
			name: "Classification cascade beats street cleaning keyword",
			text: "NO PARKING 11AM-12:30PM TUE & FRI STREET CLEANING",
			expected: Rule{
				OriginalText: "NO PARKING 11AM-12:30PM TUE & FRI STREET CLEANING",
				Type:         RestrictionNoParking,
				Days:         []int{1, 4},
				TimeRange:    timeRange(MinuteOf(11, 0), MinuteOf(12, 30)),
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Day range wrapping the week boundary",
			text: "FRI THRU MON",
			expected: Rule{
				OriginalText: "FRI THRU MON",
				Type:         RestrictionUnknown,
				Days:         []int{0, 4, 5, 6},
				Exceptions:   []int{},
				Confidence:   0.5,
				Parsed:       true,
			},
		},
		{
			name: "Hyphen day range",
			text: "NO PARKING MON-WED",
			expected: Rule{
				OriginalText: "NO PARKING MON-WED",
				Type:         RestrictionNoParking,
				Days:         []int{0, 1, 2},
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Day list with AND",
			text: "NO STANDING SAT AND SUN",
			expected: Rule{
				OriginalText: "NO STANDING SAT AND SUN",
				Type:         RestrictionNoStanding,
				Days:         []int{5, 6},
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Overnight window kept unordered",
			text: "NO STOPPING 10PM-2AM",
			expected: Rule{
				OriginalText: "NO STOPPING 10PM-2AM",
				Type:         RestrictionNoStopping,
				Days:         []int{},
				TimeRange:    timeRange(MinuteOf(22, 0), MinuteOf(2, 0)),
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "TO connector and full day name",
			text: "NO PARKING 8AM TO 6PM TUESDAY",
			expected: Rule{
				OriginalText: "NO PARKING 8AM TO 6PM TUESDAY",
				Type:         RestrictionNoParking,
				Days:         []int{1},
				TimeRange:    timeRange(MinuteOf(8, 0), MinuteOf(18, 0)),
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Noon and midnight edge cases",
			text: "NO PARKING 12AM-12PM",
			expected: Rule{
				OriginalText: "NO PARKING 12AM-12PM",
				Type:         RestrictionNoParking,
				Days:         []int{},
				TimeRange:    timeRange(MinuteOf(0, 0), MinuteOf(12, 0)),
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Cascade priority is fixed, not positional",
			text: "STREET CLEANING ZONE NO STOPPING",
			expected: Rule{
				OriginalText: "STREET CLEANING ZONE NO STOPPING",
				Type:         RestrictionNoStopping,
				Days:         []int{},
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Lowercase input is normalized",
			text: "  no parking 8am-6pm mon thru fri  ",
			expected: Rule{
				OriginalText: "NO PARKING 8AM-6PM MON THRU FRI",
				Type:         RestrictionNoParking,
				Days:         []int{0, 1, 2, 3, 4},
				TimeRange:    timeRange(MinuteOf(8, 0), MinuteOf(18, 0)),
				Exceptions:   []int{},
				Confidence:   0.9,
				Parsed:       true,
			},
		},
		{
			name: "Noise text degrades to unknown",
			text: "SEE SIGN FOR DETAILS",
			expected: Rule{
				OriginalText: "SEE SIGN FOR DETAILS",
				Type:         RestrictionUnknown,
				Days:         []int{},
				Exceptions:   []int{},
				Confidence:   0.5,
				Parsed:       true,
			},
		},
		{
			name: "Empty input yields the degenerate rule",
			text: "",
			expected: Rule{
				Type:       RestrictionUnknown,
				Days:       []int{},
				Exceptions: []int{},
				Confidence: 0.5,
			},
		},
		{
			name: "Blank input yields the degenerate rule",
			text: "   \t ",
			expected: Rule{
				Type:       RestrictionUnknown,
				Days:       []int{},
				Exceptions: []int{},
				Confidence: 0.5,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse(tc.text))
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	texts := []string{
		"NO PARKING 8AM-6PM MON THRU FRI",
		"2 HOUR PARKING 9AM-7PM EXCEPT SUNDAY",
		"random noise",
		"",
	}
	for _, text := range texts {
		assert.Equal(t, Parse(text), Parse(text), "parse of %q must be referentially transparent", text)
	}
}

func TestParseInvariants(t *testing.T) {
	corpus := []string{
		"NO PARKING 8AM-6PM MON THRU FRI",
		"NO STANDING ANYTIME",
		"2 HOUR PARKING 9AM-7PM EXCEPT SUNDAY",
		"NO PARKING 11AM-12:30PM TUE & FRI STREET CLEANING",
		"FRI THRU MON",
		"STREET CLEANING MON, WED, FRI 9:30AM-11AM",
		"totally unrecognizable",
		"",
	}

	for _, text := range corpus {
		r := Parse(text)

		if r.Type != RestrictionUnknown {
			assert.Equal(t, 0.9, r.Confidence, "recognized rule %q", text)
		} else {
			assert.Equal(t, 0.5, r.Confidence, "unrecognized rule %q", text)
		}

		for _, set := range [][]int{r.Days, r.Exceptions} {
			for i, d := range set {
				assert.GreaterOrEqual(t, d, 0)
				assert.LessOrEqual(t, d, 6)
				if i > 0 {
					assert.Less(t, set[i-1], d, "day set of %q must be strictly ascending", text)
				}
			}
		}
	}
}

func TestParseCommaSeparatedDays(t *testing.T) {
	r := Parse("STREET CLEANING MON, WED, FRI 9:30AM-11AM")
	assert.Equal(t, RestrictionStreetCleaning, r.Type)
	assert.Equal(t, []int{0, 2, 4}, r.Days)
	assert.Equal(t, timeRange(MinuteOf(9, 30), MinuteOf(11, 0)), r.TimeRange)
}

func TestParseAllDayPhrasingHasNoTimeRange(t *testing.T) {
	// "ANYTIME" carries no AM/PM pattern, so the rule ends up with no time
	// window and is inert at evaluation time. Known source behavior.
	r := Parse("NO STANDING ANYTIME")
	assert.Equal(t, RestrictionNoStanding, r.Type)
	assert.Nil(t, r.TimeRange)
}
