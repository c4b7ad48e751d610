package match

import "time"

// Scheduled is an approved fixture between the host (proposal target) and
// the visitor (proposer). Team names are snapshots taken at approval.
type Scheduled struct {
	ID           string
	ProposalID   string
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string
	MatchDate    time.Time
	Location     string
	CreatedAt    time.Time
}

func (m Scheduled) Involves(teamID string) bool {
	return teamID != "" && (m.HomeTeamID == teamID || m.AwayTeamID == teamID)
}

// OpponentOf returns the other side of the fixture, or "" when teamID does
// not play in it.
func (m Scheduled) OpponentOf(teamID string) string {
	switch teamID {
	case "":
		return ""
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	default:
		return ""
	}
}

// DaysUntil counts calendar days from now to the match date, negative once
// the date has passed.
func (m Scheduled) DaysUntil(now time.Time) int {
	y1, m1, d1 := now.UTC().Date()
	y2, m2, d2 := m.MatchDate.UTC().Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
