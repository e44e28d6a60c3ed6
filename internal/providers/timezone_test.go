package providers

import (
	"testing"
	"time"
)

func TestResolveTimezoneValid(t *testing.T) {
	loc := ResolveTimezone("UTC", nil)
	if loc == nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v", loc)
	}
}

func TestResolveTimezoneFallsBack(t *testing.T) {
	fallback := time.FixedZone("fallback", 0)
	if loc := ResolveTimezone("Not/AZone", fallback); loc != fallback {
		t.Fatalf("expected fallback for invalid timezone, got %v", loc)
	}
	if loc := ResolveTimezone("", fallback); loc != fallback {
		t.Fatalf("expected fallback for empty timezone, got %v", loc)
	}
}
