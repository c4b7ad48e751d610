package result

import "context"

// Repository exposes match result persistence operations.
type Repository interface {
	GetByMatchID(ctx context.Context, matchID string) (MatchResult, bool, error)
	Create(ctx context.Context, r MatchResult) error
	Update(ctx context.Context, r MatchResult) error
	Delete(ctx context.Context, resultID string) error
	CreateScorers(ctx context.Context, scorers []Scorer) error
	ListScorers(ctx context.Context, resultID string) ([]Scorer, error)
}
