package discovery

import (
	"strings"

	"github.com/tidwall/gjson"
)

// SprayTokens are field-name fragments that mark a spray or trajectory dataset.
var SprayTokens = []string{"spray", "spray_deg", "carry_ft", "apex_ft", "is_hr", "hang", "la"}

// shortTokenLen is the length at or below which a token must equal the whole
// field name, so "la" flags a launch-angle column but not "player".
const shortTokenLen = 2

// LooksLikeSpray inspects the first row of a top-level array, or of a "data"
// array, and reports whether any field name carries a spray token.
func LooksLikeSpray(doc []byte) bool {
	root := gjson.ParseBytes(doc)
	rows := root
	if !rows.IsArray() {
		rows = root.Get("data")
	}
	if !rows.IsArray() {
		return false
	}
	first := rows.Get("0")
	if !first.IsObject() {
		return false
	}
	spray := false
	first.ForEach(func(key, _ gjson.Result) bool {
		if isSprayField(key.String()) {
			spray = true
			return false
		}
		return true
	})
	return spray
}

func isSprayField(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, token := range SprayTokens {
		if len(token) <= shortTokenLen {
			if name == token {
				return true
			}
			continue
		}
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}
