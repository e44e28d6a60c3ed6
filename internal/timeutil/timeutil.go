package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MinSeason is the earliest season accepted from callers.
const MinSeason = 1900

// Window returns the YYYY-MM-DD bounds of a range starting at start and
// spanning at least one day.
func Window(start time.Time, days int) (string, string) {
	if days < 1 {
		days = 1
	}
	return FormatDate(start), FormatDate(start.AddDate(0, 0, days))
}

// SeasonOrCurrent parses raw as a season year, falling back to now's year
// when it is missing, malformed, or before MinSeason.
func SeasonOrCurrent(raw string, now time.Time) int {
	if season, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && season >= MinSeason {
		return season
	}
	return now.Year()
}
