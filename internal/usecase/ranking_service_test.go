package usecase

import (
	"testing"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingService_LeaderboardsFollowSettlement(t *testing.T) {
	env := newTestEnv(t)
	env.settlements.invalidator = env.rankings
	ctx := t.Context()

	before, err := env.rankings.Leaderboards(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, before.Limit)
	require.Len(t, before.Categories, len(ability.Categories))
	for _, row := range before.Categories[ability.CategoryMVP] {
		assert.Zero(t, row.Points)
	}

	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 5, 2)
	_, err = env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoLeaderHomeID,
	})
	require.NoError(t, err)

	after, err := env.rankings.Leaderboards(ctx, 0)
	require.NoError(t, err)

	mvp := after.Categories[ability.CategoryMVP]
	require.NotEmpty(t, mvp)
	assert.Equal(t, RankedMember{Rank: 1, MemberID: memory.DemoPlayerHomeID, Nickname: "rafi", Points: 1}, mvp[0])

	charm := after.Categories[ability.CategoryCharm]
	require.NotEmpty(t, charm)
	assert.Equal(t, memory.DemoLeaderHomeID, charm[0].MemberID)
	assert.Equal(t, "dimas", charm[0].Nickname)

	_, err = env.rankings.Leaderboards(ctx, maxLeaderboardSize+1)
	requireKind(t, err, KindValidation)
}

func TestRankingService_MemberRank(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 1, 0)
	_, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoPlayerHomeID,
	})
	require.NoError(t, err)

	rank, err := env.rankings.MemberRank(ctx, memory.DemoPlayerHomeID)
	require.NoError(t, err)
	assert.Equal(t, ability.PositionStriker, rank.Position)
	assert.Equal(t, 1, rank.MVPPoint)
	assert.Equal(t, 1, rank.PositionPoint)
	assert.Equal(t, 1, rank.PositionRank)

	// The outsider is a striker with no ability row yet.
	rank, err = env.rankings.MemberRank(ctx, testOutsiderID)
	require.NoError(t, err)
	assert.False(t, rank.AbilityPresent)
	assert.Equal(t, 2, rank.PositionRank)

	_, err = env.rankings.MemberRank(ctx, "missing")
	requireKind(t, err, KindNotFound)
}
