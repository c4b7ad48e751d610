package member

import "github.com/riskibarqy/ninety-minute/internal/domain/ability"

// Member is a registered player. OpenTeamID is the team the member owns, or
// empty when the member leads no team.
type Member struct {
	ID         string
	Nickname   string
	Position   ability.Position
	Contact    string
	Phone      string
	OpenTeamID string
}

// Leads reports whether the member currently owns teamID.
func (m Member) Leads(teamID string) bool {
	return teamID != "" && m.OpenTeamID == teamID
}
