package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := t.Context()
	boom := errors.New("boom")

	err := store.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		require.NoError(t, repos.Teams.Create(ctx, team.Team{ID: "t1", Name: "Reds", LeaderID: "m1"}))
		require.NoError(t, repos.Teams.UpsertRecord(ctx, team.Record{TeamID: "t1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		_, ok, err := repos.Teams.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = repos.Teams.GetRecord(ctx, "t1")
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ViewIsReadOnly(t *testing.T) {
	store := NewStore()

	err := store.View(t.Context(), func(ctx context.Context, repos uow.Repositories) error {
		return repos.Teams.Create(ctx, team.Team{ID: "t1"})
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestStore_CanceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	called := false
	err := store.Update(ctx, func(context.Context, uow.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_ProposalsOrderedByCreation(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	ctx := t.Context()
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Proposals.Create(ctx, proposal.Proposal{ID: "p2", ProposerTeamID: "a", TargetTeamID: "b", CreatedAt: at}))
	require.NoError(t, repos.Proposals.Create(ctx, proposal.Proposal{ID: "p1", ProposerTeamID: "c", TargetTeamID: "b", CreatedAt: at}))
	require.NoError(t, repos.Proposals.Create(ctx, proposal.Proposal{ID: "p0", ProposerTeamID: "d", TargetTeamID: "b", CreatedAt: at.Add(-time.Hour)}))

	got, err := repos.Proposals.ListByTarget(ctx, "b")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"p0", "p2", "p1"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestStore_ReplaceFieldKeepsSubstitutes(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	ctx := t.Context()

	field := func(id string) lineup.Entry {
		return lineup.Entry{ID: id, MatchID: "m1", TeamID: "t1", Slot: lineup.SlotField, Position: ability.PositionStriker, Player: lineup.Anonymous{}}
	}
	require.NoError(t, repos.Lineups.ReplaceField(ctx, "m1", "t1", []lineup.Entry{field("e1"), field("e2")}))
	require.NoError(t, repos.Lineups.CreateSubstitutes(ctx, []lineup.Entry{{
		ID: "s1", MatchID: "m1", TeamID: "t1", ResultID: "r1", Slot: lineup.SlotSubstitute,
		Position: ability.PositionDefender, Player: lineup.Registered{MemberID: "m9"},
	}}))
	require.NoError(t, repos.Lineups.ReplaceField(ctx, "m1", "t1", []lineup.Entry{field("e3")}))

	got, err := repos.Lineups.ListByMatchAndTeam(ctx, "m1", "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e3", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)
}

func TestStore_AbilityRanking(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	ctx := t.Context()

	require.NoError(t, repos.Abilities.Upsert(ctx, []ability.Ability{
		{MemberID: "b", MVPPoint: 3},
		{MemberID: "a", MVPPoint: 3},
		{MemberID: "c", MVPPoint: 1},
	}))

	top, err := repos.Abilities.Top(ctx, ability.CategoryMVP, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].MemberID)
	assert.Equal(t, "b", top[1].MemberID)

	above, err := repos.Abilities.CountAbove(ctx, ability.CategoryMVP, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, above)
}

func TestSeedDemo(t *testing.T) {
	store := NewStore()
	require.NoError(t, SeedDemo(t.Context(), store, time.Now()))

	repos := store.Repositories()
	count, err := repos.Participations.CountApproved(t.Context(), DemoTeamHomeID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	leader, ok, err := repos.Members.GetByID(t.Context(), DemoLeaderHomeID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, leader.Leads(DemoTeamHomeID))
}
