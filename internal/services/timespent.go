package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var timeUnitRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([wdhms])`)

// unitHours maps Jira duration units to decimal hours on a 5-day/8-hour work
// calendar, not wall-clock time. Matches how the tracker itself books time.
var unitHours = map[string]float64{
	"w": 40,
	"d": 8,
	"h": 1,
	"m": 1.0 / 60,
	"s": 1.0 / 3600,
}

// ParseTimeSpent converts a Jira time-spent string ("1d 4h 30m", "2w 3d",
// "45m") to decimal hours, rounded to 2 places. A bare number is read as
// hours.
func ParseTimeSpent(timeSpent string) float64 {
	ts := strings.ToLower(strings.TrimSpace(timeSpent))
	if ts == "" { return 0 }

	total := 0.0
	for _, m := range timeUnitRe.FindAllStringSubmatch(ts, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil { continue }
		total += v * unitHours[m[2]]
	}
	if total == 0 {
		if v, err := strconv.ParseFloat(ts, 64); err == nil {
			total = v
		}
	}
	return math.Round(total*100) / 100
}

// FormatHours renders decimal hours back to "8h 30m" form.
func FormatHours(hours float64) string {
	if hours == 0 { return "0h" }
	whole := int(hours)
	minutes := int(math.Round((hours - float64(whole)) * 60))
	if minutes == 0 {
		return strconv.Itoa(whole) + "h"
	}
	return strconv.Itoa(whole) + "h " + strconv.Itoa(minutes) + "m"
}
