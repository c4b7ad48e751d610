package history

import "time"

// History archives a settled match. Team and score fields are denormalized
// so that team timelines need no joins.
type History struct {
	ID         string
	MatchID    string
	ResultID   string
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	MatchDate  time.Time
	CreatedAt  time.Time
}
