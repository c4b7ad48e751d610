package member

import "context"

// Repository exposes member persistence operations.
type Repository interface {
	GetByID(ctx context.Context, memberID string) (Member, bool, error)
	GetByIDs(ctx context.Context, memberIDs []string) ([]Member, error)
	Create(ctx context.Context, member Member) error
	Update(ctx context.Context, member Member) error
}
