package teams

// Level distinguishes organization tiers.
type Level string

const (
	LevelCollege Level = "college"
	LevelPro     Level = "pro"
)

// Option describes a selectable team and the identifiers each upstream uses for it.
// Zero values mean the upstream has no configuration for the team.
type Option struct {
	Label             string `json:"label"`
	Key               string `json:"value"`
	Level             Level  `json:"level"`
	ScheduleTeamID    int    `json:"mlbTeamId,omitempty"`
	TrackingTeam      string `json:"baseballSavantTeam,omitempty"`
	LeaderboardTeamID int    `json:"fangraphsTeamId,omitempty"`
}

// HasRosterSources reports whether both roster providers are configured for the team.
func (o Option) HasRosterSources() bool {
	return o.LeaderboardTeamID > 0 && o.TrackingTeam != ""
}
