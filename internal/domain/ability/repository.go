package ability

import "context"

// Repository exposes ability persistence and ranking reads.
type Repository interface {
	Get(ctx context.Context, memberID string) (Ability, bool, error)
	GetMany(ctx context.Context, memberIDs []string) ([]Ability, error)
	Upsert(ctx context.Context, abilities []Ability) error
	// Top orders by the category points descending, ties by member id.
	Top(ctx context.Context, category Category, limit int) ([]Ability, error)
	// CountAbove counts members with strictly more points in category.
	CountAbove(ctx context.Context, category Category, points int) (int, error)
}
