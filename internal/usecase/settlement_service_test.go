package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementService_FullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	m := env.scheduleMatch(t)
	env.setLineups(t, m)

	reported, err := env.settlements.ReportScore(ctx, ScoreInput{
		MatchID:       m.ID,
		RequesterID:   memory.DemoLeaderHomeID,
		Score:         3,
		OpponentScore: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, memory.DemoTeamHomeID, reported.ReportingTeamID)
	assert.Equal(t, result.StageScoreReported, reported.Stage())

	corrected, err := env.settlements.CorrectScore(ctx, ScoreInput{
		MatchID:       m.ID,
		RequesterID:   memory.DemoLeaderHomeID,
		Score:         2,
		OpponentScore: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, corrected.Score)

	confirmed, err := env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderHomeID)
	require.NoError(t, err)
	assert.Equal(t, result.StageScoreConfirmed, confirmed.Stage())

	settled, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:     m.ID,
		RequesterID: memory.DemoLeaderHomeID,
		Scorers: []ScorerInput{
			{MemberID: memory.DemoPlayerHomeID},
			{MemberID: testSubstituteID},
		},
		Substitutes:       []EntryInput{{MemberID: testSubstituteID, Position: "goalkeeper"}},
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoLeaderHomeID,
	})
	require.NoError(t, err)

	assert.Equal(t, result.StageSettled, settled.Result.Stage())
	assert.Equal(t, "rafi", settled.Result.MVPNickname)
	assert.Equal(t, "dimas", settled.Result.MoodMakerNickname)
	assert.Equal(t, 2, settled.History.HomeScore)
	assert.Equal(t, 1, settled.History.AwayScore)
	require.Len(t, settled.Substitutes, 1)
	assert.Equal(t, settled.Result.ID, settled.Substitutes[0].ResultID)
	require.Len(t, settled.Scorers, 2)
	assert.Equal(t, settled.Substitutes[0].ID, settled.Scorers[1].EntryID)
	assert.EqualValues(t, 1, env.invalidated.calls.Load())

	assert.Equal(t, team.Record{TeamID: memory.DemoTeamHomeID, TotalGameCount: 1, WinCount: 1, WinRate: 1}, settled.Records[memory.DemoTeamHomeID])
	assert.Equal(t, team.Record{TeamID: memory.DemoTeamAwayID, TotalGameCount: 1, LoseCount: 1}, settled.Records[memory.DemoTeamAwayID])

	abilities := loadAbilities(t, env.store)
	assert.Equal(t, ability.Ability{MemberID: memory.DemoLeaderHomeID, MidfielderPoint: 1, CharmPoint: 1}, abilities[memory.DemoLeaderHomeID])
	assert.Equal(t, ability.Ability{MemberID: memory.DemoPlayerHomeID, StrikerPoint: 1, MVPPoint: 1}, abilities[memory.DemoPlayerHomeID])
	assert.Equal(t, ability.Ability{MemberID: testSubstituteID, GoalkeeperPoint: 1}, abilities[testSubstituteID])
	assert.Equal(t, ability.Ability{MemberID: memory.DemoLeaderAwayID}, abilities[memory.DemoLeaderAwayID])
	assert.Equal(t, ability.Ability{MemberID: memory.DemoPlayerAwayID}, abilities[memory.DemoPlayerAwayID])

	history, err := env.matches.TeamHistory(ctx, memory.DemoTeamAwayID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, m.ID, history[0].MatchID)

	_, err = env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoLeaderHomeID,
	})
	requireKind(t, err, KindPrecondition)

	again := loadAbilities(t, env.store)
	assert.Equal(t, abilities, again)
}

func TestSettlementService_DrawCreditsNoPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 1, 1)

	settled, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		Scorers:           []ScorerInput{{Anonymous: true}},
		MVPMemberID:       memory.DemoLeaderHomeID,
		MoodMakerMemberID: memory.DemoLeaderHomeID,
	})
	require.NoError(t, err)

	home := settled.Records[memory.DemoTeamHomeID]
	away := settled.Records[memory.DemoTeamAwayID]
	assert.Equal(t, 1, home.DrawCount)
	assert.Equal(t, 1, away.DrawCount)
	assert.Zero(t, home.WinRate)
	require.Len(t, settled.Scorers, 1)
	assert.True(t, settled.Scorers[0].Anonymous())

	abilities := loadAbilities(t, env.store)
	assert.Equal(t, ability.Ability{MemberID: memory.DemoLeaderHomeID, MVPPoint: 1, CharmPoint: 1}, abilities[memory.DemoLeaderHomeID])
	assert.Equal(t, ability.Ability{MemberID: memory.DemoPlayerHomeID}, abilities[memory.DemoPlayerHomeID])
}

func TestSettlementService_AwayReporterWinsForAway(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	m := env.scheduleMatch(t)
	env.setLineups(t, m)

	_, err := env.settlements.ReportScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderAwayID, Score: 4, OpponentScore: 0})
	require.NoError(t, err)
	_, err = env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderAwayID)
	require.NoError(t, err)

	settled, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderAwayID,
		MVPMemberID:       memory.DemoPlayerAwayID,
		MoodMakerMemberID: memory.DemoPlayerAwayID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, settled.History.HomeScore)
	assert.Equal(t, 4, settled.History.AwayScore)
	assert.Equal(t, 1, settled.Records[memory.DemoTeamAwayID].WinCount)
	assert.Equal(t, 1, settled.Records[memory.DemoTeamHomeID].LoseCount)

	abilities := loadAbilities(t, env.store)
	assert.Equal(t, ability.Ability{MemberID: memory.DemoLeaderAwayID, DefenderPoint: 1}, abilities[memory.DemoLeaderAwayID])
	assert.Equal(t, ability.Ability{MemberID: memory.DemoPlayerAwayID, GoalkeeperPoint: 1, MVPPoint: 1, CharmPoint: 1}, abilities[memory.DemoPlayerAwayID])
	assert.Equal(t, ability.Ability{MemberID: memory.DemoLeaderHomeID}, abilities[memory.DemoLeaderHomeID])
}

func TestSettlementService_ScoreErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)

	_, err := env.settlements.ReportScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderHomeID, Score: -1})
	requireKind(t, err, KindValidation)

	_, err = env.settlements.ReportScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoPlayerHomeID, Score: 1})
	requireKind(t, err, KindAuthorization)

	_, err = env.settlements.ReportScore(ctx, ScoreInput{MatchID: "missing", RequesterID: memory.DemoLeaderHomeID, Score: 1})
	requireKind(t, err, KindNotFound)

	_, err = env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderHomeID)
	requireKind(t, err, KindPrecondition)

	_, err = env.settlements.ReportScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderHomeID, Score: 1})
	require.NoError(t, err)

	_, err = env.settlements.ReportScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderAwayID, Score: 2})
	requireKind(t, err, KindConflict)

	_, err = env.settlements.CorrectScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderAwayID, Score: 2})
	requireKind(t, err, KindAuthorization)

	_, err = env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderAwayID)
	requireKind(t, err, KindAuthorization)

	_, err = env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderHomeID)
	require.NoError(t, err)

	_, err = env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderHomeID)
	requireKind(t, err, KindPrecondition)

	_, err = env.settlements.CorrectScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderHomeID, Score: 5})
	requireKind(t, err, KindPrecondition)
}

func TestSettlementService_RecordResultPreconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)

	input := RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoLeaderHomeID,
	}

	_, err := env.settlements.RecordResult(ctx, input)
	requireKind(t, err, KindPrecondition)

	_, err = env.settlements.ReportScore(ctx, ScoreInput{MatchID: m.ID, RequesterID: memory.DemoLeaderHomeID, Score: 1})
	require.NoError(t, err)
	_, err = env.settlements.RecordResult(ctx, input)
	requireKind(t, err, KindPrecondition)

	_, err = env.settlements.ConfirmScore(ctx, m.ID, memory.DemoLeaderHomeID)
	require.NoError(t, err)
	_, err = env.settlements.RecordResult(ctx, input)
	requireKind(t, err, KindPrecondition)

	env.setLineups(t, m)

	withoutMVP := input
	withoutMVP.MVPMemberID = ""
	_, err = env.settlements.RecordResult(ctx, withoutMVP)
	requireKind(t, err, KindValidation)

	foreignMVP := input
	foreignMVP.MVPMemberID = memory.DemoPlayerAwayID
	_, err = env.settlements.RecordResult(ctx, foreignMVP)
	requireKind(t, err, KindNotFound)

	fromAway := input
	fromAway.RequesterID = memory.DemoLeaderAwayID
	_, err = env.settlements.RecordResult(ctx, fromAway)
	requireKind(t, err, KindAuthorization)

	fieldAsSub := input
	fieldAsSub.Substitutes = []EntryInput{{MemberID: memory.DemoPlayerHomeID, Position: "striker"}}
	_, err = env.settlements.RecordResult(ctx, fieldAsSub)
	requireKind(t, err, KindValidation)
}

func TestSettlementService_RecordResultIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 3, 0)

	_, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		Substitutes:       []EntryInput{{MemberID: testSubstituteID, Position: "goalkeeper"}},
		Scorers:           []ScorerInput{{MemberID: testOutsiderID}},
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoLeaderHomeID,
	})
	requireKind(t, err, KindNotFound)
	assert.Zero(t, env.invalidated.calls.Load())

	err = env.store.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, res.Settled)

		entries, err := repos.Lineups.ListByMatchAndTeam(ctx, m.ID, memory.DemoTeamHomeID)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Equal(t, lineup.SlotField, e.Slot)
		}

		_, ok, err = repos.Histories.GetByMatchID(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func loadAbilities(t *testing.T, store *memory.Store) map[string]ability.Ability {
	t.Helper()

	out := make(map[string]ability.Ability)
	err := store.View(t.Context(), func(ctx context.Context, repos uow.Repositories) error {
		ids := []string{
			memory.DemoLeaderHomeID,
			memory.DemoPlayerHomeID,
			memory.DemoLeaderAwayID,
			memory.DemoPlayerAwayID,
			testSubstituteID,
		}
		items, err := repos.Abilities.GetMany(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			out[id] = ability.Ability{MemberID: id}
		}
		for _, a := range items {
			out[a.MemberID] = a
		}
		return nil
	})
	require.NoError(t, err)
	return out
}
