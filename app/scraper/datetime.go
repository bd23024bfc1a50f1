package scraper

import (
	"regexp"
	"strconv"
	"time"
)

// eventTimePattern matches the Czech date format used on the promo page,
// e.g. "9.9.2025 15:00".
var eventTimePattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})\s+(\d{1,2}):(\d{2})`)

// eventRangePattern additionally requires the end time of the range,
// e.g. "9.9.2025 15:00 - 18:00". This is what announces a Dobíječka slot.
var eventRangePattern = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}\s+\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2}`)

// ParseEventTime extracts the first date/time occurrence from text and
// returns it as a timestamp in the given location. Returns nil when no
// pattern is present or the captured fields do not form a valid calendar
// date (e.g. 32.13.2025 or 25:70). Later occurrences are ignored: the first
// plausible date wins.
func ParseEventTime(text string, loc *time.Location) *time.Time {
	m := eventTimePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)

	// time.Date normalizes out-of-range components (Feb 30 becomes Mar 2);
	// a round-trip mismatch means the captured values were not a real date.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute {
		return nil
	}

	return &t
}
