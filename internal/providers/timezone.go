package providers

import "time"

// ResolveTimezone loads tz, returning fallback when tz is empty or unknown.
func ResolveTimezone(tz string, fallback *time.Location) *time.Location {
	if tz == "" {
		return fallback
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fallback
	}
	return loc
}
