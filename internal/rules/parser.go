package rules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Fixed vocabulary tables and patterns, built once at init and read-only
// afterwards, so Parse is safe for unrestricted concurrent use.
var (
	dayToken = `MONDAY|TUESDAY|WEDNESDAY|THURSDAY|FRIDAY|SATURDAY|SUNDAY|MON|TUE|WED|THU|FRI|SAT|SUN`

	dayTokenRe = regexp.MustCompile(`\b(?:` + dayToken + `)\b`)
	dayRangeRe = regexp.MustCompile(`\b(` + dayToken + `)\b\s*(?:THRU|THROUGH|-)\s*\b(` + dayToken + `)\b`)
	andWordRe  = regexp.MustCompile(`\bAND\b`)
	listSepRe  = regexp.MustCompile(`[&,]|\bAND\b`)

	timeRangeRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(AM|PM)\s*(?:-|TO)\s*(\d{1,2})(?::(\d{2}))?\s*(AM|PM)`)
	meteredRe   = regexp.MustCompile(`(\d+)\s+HOUR PARKING`)
)

var dayIndex = map[string]int{
	"MON": 0, "TUE": 1, "WED": 2, "THU": 3, "FRI": 4, "SAT": 5, "SUN": 6,
	"MONDAY": 0, "TUESDAY": 1, "WEDNESDAY": 2, "THURSDAY": 3,
	"FRIDAY": 4, "SATURDAY": 5, "SUNDAY": 6,
}

// classifiers is the ordered type cascade. The FIRST entry whose keyword
// appears anywhere in the text wins, regardless of where later keywords
// appear: many real signs carry several keywords (a street-cleaning notice
// usually also says "NO PARKING").
var classifiers = []struct {
	keyword string
	typ     RestrictionType
}{
	{"NO STOPPING", RestrictionNoStopping},
	{"NO STANDING", RestrictionNoStanding},
	{"NO PARKING", RestrictionNoParking},
	{"STREET CLEANING", RestrictionStreetCleaning},
}

// Parse converts one free-text regulation string into a structured Rule.
// It never fails: malformed or unrecognized text degrades to an UNKNOWN
// rule with confidence 0.5 rather than an error.
func Parse(text string) Rule {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	if normalized == "" {
		return Rule{
			Type:       RestrictionUnknown,
			Days:       []int{},
			Exceptions: []int{},
			Confidence: 0.5,
		}
	}

	r := Rule{
		OriginalText: normalized,
		Type:         RestrictionUnknown,
		Parsed:       true,
	}

	for _, c := range classifiers {
		if strings.Contains(normalized, c.keyword) {
			r.Type = c.typ
			break
		}
	}
	if r.Type == RestrictionUnknown {
		if m := meteredRe.FindStringSubmatch(normalized); m != nil {
			r.Type = RestrictionMetered
			if limit, err := strconv.Atoi(m[1]); err == nil {
				r.HoursLimit = limit
			}
		}
	}

	r.TimeRange = extractTimeRange(normalized)
	r.Days = extractDays(normalized)
	r.Exceptions = extractExceptions(normalized)

	if r.Type != RestrictionUnknown {
		r.Confidence = 0.9
	} else {
		r.Confidence = 0.5
	}
	return r
}

// extractTimeRange finds the first "<time> <connector> <time>" pattern.
// The pair is stored exactly as written: a start greater than the end
// encodes an overnight window and must not be reordered.
func extractTimeRange(text string) *TimeRange {
	m := timeRangeRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &TimeRange{
		Start: clockFrom(m[1], m[2], m[3]),
		End:   clockFrom(m[4], m[5], m[6]),
	}
}

// clockFrom converts one matched time half to 24-hour minutes.
func clockFrom(hourStr, minStr, meridiem string) Minute {
	hour, _ := strconv.Atoi(hourStr)
	min := 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	if meridiem == "PM" && hour != 12 {
		hour += 12
	} else if meridiem == "AM" && hour == 12 {
		hour = 0
	}
	return MinuteOf(hour, min)
}

// extractDays applies three mutually exclusive strategies in strict
// priority: day range, separator list, scan-all fallback. Only one runs,
// so a description combining a range AND a separate disjoint day cannot
// express both; downstream behavior depends on that limitation.
func extractDays(text string) []int {
	switch {
	case strings.Contains(text, "THRU") || strings.Contains(text, "THROUGH") || dayRangeRe.MatchString(text):
		return daysFromRange(text)
	case strings.Contains(text, "&") || strings.Contains(text, ",") || andWordRe.MatchString(text):
		return daysFromList(text)
	default:
		return scanDays(text)
	}
}

// daysFromRange resolves "MON THRU FRI" style ranges. A start index above
// the end index wraps the week boundary: FRI THRU MON is Fri,Sat,Sun,Mon.
func daysFromRange(text string) []int {
	m := dayRangeRe.FindStringSubmatch(text)
	if m == nil {
		return []int{}
	}
	start, end := dayIndex[m[1]], dayIndex[m[2]]

	var days []int
	if start <= end {
		for d := start; d <= end; d++ {
			days = append(days, d)
		}
	} else {
		for d := start; d <= 6; d++ {
			days = append(days, d)
		}
		for d := 0; d <= end; d++ {
			days = append(days, d)
		}
	}
	return sortedUnique(days)
}

// daysFromList splits on "&", "," or the word AND and resolves each segment
// to its first recognized day token. Segments without one are ignored.
func daysFromList(text string) []int {
	var days []int
	for _, segment := range listSepRe.Split(text, -1) {
		if tok := dayTokenRe.FindString(segment); tok != "" {
			days = append(days, dayIndex[tok])
		}
	}
	return sortedUnique(days)
}

// scanDays collects every recognized day token in the text. Prose that
// lists days without recognized separators legitimately yields several.
func scanDays(text string) []int {
	var days []int
	for _, tok := range dayTokenRe.FindAllString(text, -1) {
		days = append(days, dayIndex[tok])
	}
	return sortedUnique(days)
}

// extractExceptions scans the substring strictly after the first "EXCEPT"
// for day tokens. Whether a day appears in both days and exceptions is
// resolved at evaluation time, where exceptions take priority.
func extractExceptions(text string) []int {
	idx := strings.Index(text, "EXCEPT")
	if idx < 0 {
		return []int{}
	}
	return scanDays(text[idx+len("EXCEPT"):])
}

func sortedUnique(days []int) []int {
	sort.Ints(days)
	out := make([]int, 0, len(days))
	for i, d := range days {
		if i > 0 && days[i-1] == d {
			continue
		}
		out = append(out, d)
	}
	return out
}
