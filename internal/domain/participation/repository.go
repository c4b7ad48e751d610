package participation

import "context"

// Repository exposes participation persistence operations.
type Repository interface {
	Get(ctx context.Context, teamID, memberID string) (Participation, bool, error)
	// ListByMember returns every request the member filed, oldest first.
	ListByMember(ctx context.Context, memberID string) ([]Participation, error)
	Create(ctx context.Context, p Participation) error
	Update(ctx context.Context, p Participation) error
	Delete(ctx context.Context, teamID, memberID string) error
	CountApproved(ctx context.Context, teamID string) (int, error)
}
