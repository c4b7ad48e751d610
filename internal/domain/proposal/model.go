package proposal

import "time"

// Proposal is one team's request to play another. The target team hosts the
// match once the proposal is approved.
type Proposal struct {
	ID                   string
	ProposerTeamID       string
	TargetTeamID         string
	Greeting             string
	Approved             bool
	ProposerEndRequested bool
	TargetEndRequested   bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Ended reports whether both leaders acknowledged the match as finished.
// Only ended proposals free the pair for a new proposal.
func (p Proposal) Ended() bool {
	return p.ProposerEndRequested && p.TargetEndRequested
}

// Involves reports whether teamID is either side of the proposal.
func (p Proposal) Involves(teamID string) bool {
	return teamID != "" && (p.ProposerTeamID == teamID || p.TargetTeamID == teamID)
}
