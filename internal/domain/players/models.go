package players

import (
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
)

// Kind is the role a player appears in. It is part of the merge key.
type Kind string

const (
	KindHitter  Kind = "hitter"
	KindPitcher Kind = "pitcher"
)

// Kinds lists roles in roster order.
var Kinds = []Kind{KindHitter, KindPitcher}

// Rank orders hitters before pitchers.
func (k Kind) Rank() int {
	if k == KindHitter {
		return 0
	}
	return 1
}

// SourceKind names the upstream a snapshot came from.
type SourceKind string

const (
	SourceLeaderboard SourceKind = "leaderboard"
	SourceTracking    SourceKind = "tracking"
)

// Stats maps metric names to float64 or string values.
type Stats map[string]any

// Clone returns a shallow copy; values are immutable scalars.
func (s Stats) Clone() Stats {
	if s == nil {
		return nil
	}
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SourceSnapshot is one provider's contribution for one season.
type SourceSnapshot struct {
	Season int        `json:"season"`
	Source SourceKind `json:"source"`
	Stats  Stats      `json:"stats"`
}

// Player is the canonical merged identity for one person in one role.
// Zero PrimaryID or SecondaryID means the provider supplied none.
type Player struct {
	ID          string           `json:"id"`
	TeamKey     string           `json:"teamKey"`
	TeamLabel   string           `json:"teamLabel"`
	Level       teams.Level      `json:"level"`
	Name        string           `json:"name"`
	Kind        Kind             `json:"kind"`
	Position    string           `json:"position,omitempty"`
	PrimaryID   int              `json:"primaryId,omitempty"`
	SecondaryID int              `json:"secondaryId,omitempty"`
	Sources     []SourceSnapshot `json:"sources"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (p Player) Clone() Player {
	out := p
	out.Sources = make([]SourceSnapshot, len(p.Sources))
	for i, src := range p.Sources {
		out.Sources[i] = SourceSnapshot{Season: src.Season, Source: src.Source, Stats: src.Stats.Clone()}
	}
	return out
}

// HasSource reports whether a snapshot for season and source is already present.
func (p Player) HasSource(season int, source SourceKind) bool {
	for _, src := range p.Sources {
		if src.Season == season && src.Source == source {
			return true
		}
	}
	return false
}

// CloneAll deep-copies a roster.
func CloneAll(list []Player) []Player {
	if list == nil {
		return nil
	}
	out := make([]Player, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}
