// Package uow defines the unit-of-work port every use case runs through.
package uow

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
)

// ErrDuplicate is returned by repositories when a write violates a
// uniqueness rule, typically because a concurrent unit of work won the race.
var ErrDuplicate = errors.New("duplicate key")

// Repositories is the set of stores bound to one unit of work.
type Repositories struct {
	Teams          team.Repository
	Members        member.Repository
	Participations participation.Repository
	Proposals      proposal.Repository
	Matches        match.Repository
	Lineups        lineup.Repository
	Results        result.Repository
	Histories      history.Repository
	Abilities      ability.Repository
}

// Work is the body of a unit of work.
type Work func(ctx context.Context, repos Repositories) error

// Transactor runs work atomically. Update serializes with other updates on
// the rows it touches and discards every write when work returns an error.
// View is read-only.
type Transactor interface {
	Update(ctx context.Context, work Work) error
	View(ctx context.Context, work Work) error
}
