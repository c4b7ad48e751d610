package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByIDs(ctx context.Context, teamIDs []string) ([]Team, error)
	// NameTaken matches case-insensitively among teams that are not deleted.
	NameTaken(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, team Team) error
	Update(ctx context.Context, team Team) error

	GetRecord(ctx context.Context, teamID string) (Record, bool, error)
	UpsertRecord(ctx context.Context, record Record) error
}
