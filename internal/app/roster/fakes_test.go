package roster

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

type fakeSource struct {
	source players.SourceKind
	rows   map[players.Kind][]providers.Row
	errs   map[players.Kind]error
	delay  map[players.Kind]time.Duration
	gate   chan struct{}
	// ignoreCancel keeps a gated fetch blocked on the gate alone.
	ignoreCancel bool
	calls        atomic.Int32
	finished     atomic.Int32
}

func (f *fakeSource) Source() players.SourceKind { return f.source }

func (f *fakeSource) FetchRows(ctx context.Context, team teams.Option, season int, kind players.Kind) ([]providers.Row, error) {
	f.calls.Add(1)
	defer f.finished.Add(1)
	if f.gate != nil && f.ignoreCancel {
		<-f.gate
	} else if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d := f.delay[kind]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	return f.rows[kind], nil
}

var testTeam = teams.Option{
	Label:             "Test Team",
	Key:               "mlb:T",
	Level:             teams.LevelPro,
	LeaderboardTeamID: 7,
	TrackingTeam:      "T",
	ScheduleTeamID:    70,
}

func janeDoeSources() (*fakeSource, *fakeSource) {
	leader := &fakeSource{
		source: players.SourceLeaderboard,
		rows: map[players.Kind][]providers.Row{
			players.KindHitter: {{Name: "Jane Doe", Stats: players.Stats{"AVG": 0.300}}},
		},
	}
	tracking := &fakeSource{
		source: players.SourceTracking,
		rows: map[players.Kind][]providers.Row{
			players.KindHitter: {{Name: "Jane Doe", ProviderID: 555, Stats: players.Stats{"avg_hit_speed": 90.1}}},
		},
	}
	return leader, tracking
}
