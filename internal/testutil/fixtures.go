package testutil

import (
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
)

// SampleTeam returns a team option with both roster sources configured.
func SampleTeam(key string) teams.Option {
	return teams.Option{
		Label:             "Sample " + key,
		Key:               key,
		Level:             teams.LevelPro,
		ScheduleTeamID:    100,
		TrackingTeam:      "SMP",
		LeaderboardTeamID: 10,
	}
}

// SamplePlayer returns a hitter with one leaderboard snapshot for season.
func SamplePlayer(teamKey, name string, primaryID, season int) players.Player {
	p := players.Player{
		TeamKey:     teamKey,
		TeamLabel:   "Sample " + teamKey,
		Level:       teams.LevelPro,
		Name:        name,
		Kind:        players.KindHitter,
		PrimaryID:   primaryID,
		LastUpdated: time.Date(season, 6, 1, 0, 0, 0, 0, time.UTC),
		Sources: []players.SourceSnapshot{
			{Season: season, Source: players.SourceLeaderboard, Stats: players.Stats{"AVG": 0.3}},
		},
	}
	p.ID = players.CanonicalID(p, teamKey)
	return p
}
