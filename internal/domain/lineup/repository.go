package lineup

import "context"

// Repository exposes lineup persistence operations.
type Repository interface {
	// ListByMatchAndTeam returns field entries followed by substitutes.
	ListByMatchAndTeam(ctx context.Context, matchID, teamID string) ([]Entry, error)
	// ReplaceField swaps the whole field lineup of (match, team).
	ReplaceField(ctx context.Context, matchID, teamID string, entries []Entry) error
	CreateSubstitutes(ctx context.Context, entries []Entry) error
	DeleteByMatch(ctx context.Context, matchID string) error
}
