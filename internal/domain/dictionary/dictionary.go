package dictionary

// Entity says which roster role a metric applies to.
type Entity string

const (
	EntityHitter  Entity = "hitter"
	EntityPitcher Entity = "pitcher"
	EntityBoth    Entity = "both"
)

// MetricDef documents one metric exposed through player source snapshots.
type MetricDef struct {
	Key              string   `json:"key"`
	Label            string   `json:"label"`
	Entity           Entity   `json:"entity"`
	Unit             string   `json:"unit,omitempty"`
	Description      string   `json:"description"`
	SourcePreference []string `json:"sourcePreference"`
	FreshnessSLA     string   `json:"freshnessSLA"`
}

var defs = []MetricDef{
	{Key: "AVG", Label: "Batting Average", Entity: EntityHitter, Description: "Hits divided by at-bats.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
	{Key: "OBP", Label: "On-Base Percentage", Entity: EntityHitter, Description: "Rate of reaching base per plate appearance.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
	{Key: "wOBA", Label: "Weighted On-Base Average", Entity: EntityHitter, Description: "Linear-weight value of each plate appearance outcome.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
	{Key: "wRC+", Label: "Weighted Runs Created Plus", Entity: EntityHitter, Description: "Run creation scaled to league and park, 100 is average.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
	{Key: "avg_hit_speed", Label: "Average Exit Velocity", Entity: EntityHitter, Unit: "mph", Description: "Mean exit velocity of batted balls.", SourcePreference: []string{"tracking"}, FreshnessSLA: "daily"},
	{Key: "brl_percent", Label: "Barrel Rate", Entity: EntityBoth, Unit: "%", Description: "Share of batted ball events classified as barrels.", SourcePreference: []string{"tracking"}, FreshnessSLA: "daily"},
	{Key: "ERA", Label: "Earned Run Average", Entity: EntityPitcher, Description: "Earned runs allowed per nine innings.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
	{Key: "FIP", Label: "Fielding Independent Pitching", Entity: EntityPitcher, Description: "ERA estimator from strikeouts, walks and home runs.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
	{Key: "K%", Label: "Strikeout Rate", Entity: EntityBoth, Unit: "%", Description: "Strikeouts per plate appearance.", SourcePreference: []string{"leaderboard", "tracking"}, FreshnessSLA: "daily"},
	{Key: "WAR", Label: "Wins Above Replacement", Entity: EntityBoth, Description: "Total value in wins over a replacement-level player.", SourcePreference: []string{"leaderboard"}, FreshnessSLA: "daily"},
}

// List returns a copy of the metric dictionary.
func List() []MetricDef {
	out := make([]MetricDef, len(defs))
	for i, d := range defs {
		d.SourcePreference = append([]string(nil), d.SourcePreference...)
		out[i] = d
	}
	return out
}
