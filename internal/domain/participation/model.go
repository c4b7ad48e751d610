package participation

import "time"

// Participation links a member to a team. Only approved rows count as
// membership.
type Participation struct {
	TeamID     string
	MemberID   string
	Approved   bool
	CreatedAt  time.Time
	ApprovedAt time.Time
}
