package schedule

import "time"

// Game is one scheduled game seen from a given team's perspective.
type Game struct {
	ID           int
	Start        time.Time
	Home         bool
	OpponentName string
	ProbableHome string
	ProbableAway string
}

func (p *personResponse) displayName() string {
	if p == nil {
		return ""
	}
	for _, name := range []string{p.FullName, p.LastFirstName, p.FirstLastName} {
		if name != "" {
			return name
		}
	}
	return ""
}

// findNext walks dates then games and returns the first game involving teamID.
func findNext(payload scheduleResponse, teamID int, loc *time.Location) (Game, bool) {
	for _, date := range payload.Dates {
		for _, g := range date.Games {
			if g.Teams == nil {
				continue
			}
			isHome := g.Teams.Home.Team.ID == teamID
			isAway := g.Teams.Away.Team.ID == teamID
			if !isHome && !isAway {
				continue
			}
			opponent := g.Teams.Home.Team.Name
			if isHome {
				opponent = g.Teams.Away.Team.Name
			}
			if opponent == "" {
				opponent = "TBD"
			}
			game := Game{
				ID:           g.GamePk,
				Start:        gameStart(g.GameDate, date.Date, loc),
				Home:         isHome,
				OpponentName: opponent,
				ProbableHome: g.Teams.Home.ProbablePitcher.displayName(),
				ProbableAway: g.Teams.Away.ProbablePitcher.displayName(),
			}
			if g.ProbablePitchers != nil {
				if name := g.ProbablePitchers.Home.displayName(); name != "" {
					game.ProbableHome = name
				}
				if name := g.ProbablePitchers.Away.displayName(); name != "" {
					game.ProbableAway = name
				}
			}
			return game, true
		}
	}
	return Game{}, false
}

func gameStart(gameDate, day string, loc *time.Location) time.Time {
	if t, err := time.Parse(time.RFC3339, gameDate); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02", day, loc); err == nil {
		return t
	}
	return time.Time{}
}
