package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

// StubRowSource is a providers.RowSource that returns canned rows per kind.
type StubRowSource struct {
	Kind  players.SourceKind
	Rows  map[players.Kind][]providers.Row
	Err   error
	Calls atomic.Int32
}

// Source reports the configured source kind.
func (s *StubRowSource) Source() players.SourceKind { return s.Kind }

// FetchRows returns the rows configured for kind, or Err.
func (s *StubRowSource) FetchRows(ctx context.Context, team teams.Option, season int, kind players.Kind) ([]providers.Row, error) {
	_ = team
	_ = season
	s.Calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rows[kind], nil
}
