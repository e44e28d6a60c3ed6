package providers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var absentTokens = map[string]bool{
	"":     true,
	"-":    true,
	"--":   true,
	"—":    true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
}

var numberCleaner = strings.NewReplacer("$", "", "%", "", ",", "", " ", "")

// decimalNumber admits plain decimal notation only; hex, inf and nan spellings
// accepted by strconv are not stat values.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsAbsent reports whether a cell holds one of the empty placeholder tokens.
func IsAbsent(text string) bool {
	return absentTokens[strings.ToLower(strings.TrimSpace(text))]
}

// ParseNumber parses cell text after stripping currency, percent and grouping
// symbols. Only finite decimal values are accepted.
func ParseNumber(text string) (float64, bool) {
	if IsAbsent(text) {
		return 0, false
	}
	cleaned := numberCleaner.Replace(strings.TrimSpace(text))
	if !decimalNumber.MatchString(cleaned) {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// CoerceCell returns a float64 for numeric text, the trimmed text otherwise,
// and false for absent tokens.
func CoerceCell(text string) (any, bool) {
	if IsAbsent(text) {
		return nil, false
	}
	if v, ok := ParseNumber(text); ok {
		return v, true
	}
	return strings.TrimSpace(text), true
}

// ParseID parses a positive integer identifier.
func ParseID(text string) int {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
