package history

import "context"

// Repository exposes archive persistence operations.
type Repository interface {
	Create(ctx context.Context, h History) error
	GetByMatchID(ctx context.Context, matchID string) (History, bool, error)
	// ListByTeam returns the newest entries first; limit <= 0 means all.
	ListByTeam(ctx context.Context, teamID string, limit int) ([]History, error)
}
