package match

import "context"

// Repository exposes scheduled match persistence operations.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Scheduled, bool, error)
	GetByProposalID(ctx context.Context, proposalID string) (Scheduled, bool, error)
	// ListByTeam returns matches where the team is home or away, soonest first.
	ListByTeam(ctx context.Context, teamID string) ([]Scheduled, error)
	Create(ctx context.Context, m Scheduled) error
	Delete(ctx context.Context, matchID string) error
}
