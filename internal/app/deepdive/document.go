package deepdive

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionKeys are the table sections every normalized document carries.
var SectionKeys = []string{
	"standard",
	"advanced",
	"statcast",
	"batted_ball",
	"win_prob",
	"pitch_values",
	"pitch_type_velo",
	"plate_discipline",
	"pitchingbot",
	"fielding_pitcher",
	"value",
	"player_graphs",
	"pitch_type_splits",
	"splits",
	"pitch_velocity",
	"pitch_type_mix",
	"movement_scatter",
	"velo_trend",
	"game_log",
}

var emptyArray = json.RawMessage("[]")

// Document is a normalized deep-dive payload. Unknown top-level keys pass through.
type Document map[string]json.RawMessage

// Normalize requires a meta object, defaults every section to an empty array,
// and backfills pitch_velocity from velo_trend when it is empty.
func Normalize(body []byte) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode deep dive: %w", err)
	}
	meta, ok := raw["meta"]
	if !ok || !isKind(meta, '{') {
		return nil, fmt.Errorf("deep dive payload missing meta object")
	}

	doc := make(Document, len(raw)+len(SectionKeys))
	for k, v := range raw {
		doc[k] = v
	}
	for _, key := range SectionKeys {
		if v, ok := raw[key]; !ok || !isKind(v, '[') {
			doc[key] = emptyArray
		}
	}
	if isEmptyArray(doc["pitch_velocity"]) && !isEmptyArray(doc["velo_trend"]) {
		doc["pitch_velocity"] = doc["velo_trend"]
	}
	return doc, nil
}

// Clone copies the document so callers cannot alias retained state.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

func isKind(v json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) > 0 && trimmed[0] == open
}

func isEmptyArray(v json.RawMessage) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return true
	}
	return len(items) == 0
}
