package proposal

import "context"

// Repository exposes proposal persistence operations. Lists are ordered by
// creation time.
type Repository interface {
	GetByID(ctx context.Context, proposalID string) (Proposal, bool, error)
	ListByPair(ctx context.Context, proposerTeamID, targetTeamID string) ([]Proposal, error)
	ListByTarget(ctx context.Context, teamID string) ([]Proposal, error)
	ListByProposer(ctx context.Context, teamID string) ([]Proposal, error)
	Create(ctx context.Context, p Proposal) error
	Update(ctx context.Context, p Proposal) error
	Delete(ctx context.Context, proposalID string) error
}
