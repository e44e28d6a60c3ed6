package players

import (
	"strconv"
	"strings"
)

const (
	PrimaryPrefix   = "mlb:"
	SecondaryPrefix = "fg:"
)

// NormalizeName lowercases, maps every run of non [a-z0-9] characters to a
// single space and trims. Accents, punctuation and suffixes are lost, so two
// people with the same normalized name share a merge key.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSpace := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// MergeKey identifies one canonical player within an aggregation run.
type MergeKey struct {
	Name string
	Kind Kind
}

// KeyFor builds the merge key for a display name and role.
func KeyFor(name string, kind Kind) MergeKey {
	return MergeKey{Name: NormalizeName(name), Kind: kind}
}

// Slug renders the normalized name with dashes.
func Slug(name string) string {
	return strings.ReplaceAll(NormalizeName(name), " ", "-")
}

// CanonicalID derives an id: primary id, then secondary id, then a team slug.
func CanonicalID(p Player, teamKey string) string {
	switch {
	case p.PrimaryID > 0:
		return PrimaryPrefix + strconv.Itoa(p.PrimaryID)
	case p.SecondaryID > 0:
		return SecondaryPrefix + strconv.Itoa(p.SecondaryID)
	default:
		return teamKey + ":" + Slug(p.Name)
	}
}

// MatchesIdentifier reports whether value names this player by canonical id,
// recomputed id, or raw/prefixed provider id. Comparison ignores case.
func (p Player) MatchesIdentifier(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	candidates := []string{p.ID, CanonicalID(p, p.TeamKey)}
	if p.PrimaryID > 0 {
		raw := strconv.Itoa(p.PrimaryID)
		candidates = append(candidates, raw, PrimaryPrefix+raw)
	}
	if p.SecondaryID > 0 {
		raw := strconv.Itoa(p.SecondaryID)
		candidates = append(candidates, raw, SecondaryPrefix+raw)
	}
	for _, c := range candidates {
		if c != "" && strings.EqualFold(c, value) {
			return true
		}
	}
	return false
}
