package providers

import (
	"context"
	"net/http"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
)

// Doer executes HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Row is one upstream record normalized to the shape every adapter shares.
// ProviderID is zero when the upstream supplied no numeric id.
type Row struct {
	Name       string
	ProviderID int
	Team       string
	Position   string
	Stats      players.Stats
}

// RowSource fetches rows for one team, season and role from a single upstream.
// A team missing the identifiers the upstream needs yields ErrConfigurationMissing.
type RowSource interface {
	Source() players.SourceKind
	FetchRows(ctx context.Context, team teams.Option, season int, kind players.Kind) ([]Row, error)
}
