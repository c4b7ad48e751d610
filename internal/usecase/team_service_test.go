package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	created, err := env.teams.CreateTeam(ctx, CreateTeamInput{
		RequesterID: testOutsiderID,
		Name:        "  Tebet Juniors ",
		MainArea:    "Tebet",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tebet Juniors", created.Name)
	assert.Equal(t, testOutsiderID, created.LeaderID)

	err = env.store.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, ok, err := repos.Members.GetByID(ctx, testOutsiderID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, created.ID, m.OpenTeamID)

		p, ok, err := repos.Participations.Get(ctx, created.ID, testOutsiderID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, p.Approved)

		_, ok, err = repos.Teams.GetRecord(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	_, err = env.teams.CreateTeam(ctx, CreateTeamInput{RequesterID: testOutsiderID, Name: "Second Team"})
	requireKind(t, err, KindConflict)

	_, err = env.teams.CreateTeam(ctx, CreateTeamInput{RequesterID: testSubstituteID, Name: "kemang rovers"})
	requireKind(t, err, KindConflict)

	_, err = env.teams.CreateTeam(ctx, CreateTeamInput{RequesterID: testSubstituteID, Name: " "})
	requireKind(t, err, KindValidation)
}

func TestTeamService_Toggles(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.teams.SetMatchSeeking(ctx, memory.DemoTeamHomeID, memory.DemoLeaderHomeID, true)
	requireKind(t, err, KindPrecondition)

	_, err = env.teams.SetMatchSeeking(ctx, memory.DemoTeamHomeID, memory.DemoPlayerHomeID, false)
	requireKind(t, err, KindAuthorization)

	updated, err := env.teams.SetRecruiting(ctx, memory.DemoTeamHomeID, memory.DemoLeaderHomeID, true, "Bisa main Sabtu pagi?")
	require.NoError(t, err)
	assert.True(t, updated.Recruiting)
	assert.Equal(t, "Bisa main Sabtu pagi?", updated.RecruitQuestion)

	updated, err = env.teams.SetRecruiting(ctx, memory.DemoTeamHomeID, memory.DemoLeaderHomeID, false, "ignored")
	require.NoError(t, err)
	assert.False(t, updated.Recruiting)
	assert.Empty(t, updated.RecruitQuestion)
}

func TestTeamService_Participation(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.teams.RequestParticipation(ctx, memory.DemoTeamHomeID, testOutsiderID)
	requireKind(t, err, KindPrecondition)

	p, err := env.teams.RequestParticipation(ctx, memory.DemoTeamAwayID, testOutsiderID)
	require.NoError(t, err)
	assert.False(t, p.Approved)

	_, err = env.teams.RequestParticipation(ctx, memory.DemoTeamAwayID, testOutsiderID)
	requireKind(t, err, KindConflict)

	_, err = env.teams.ApproveParticipation(ctx, memory.DemoTeamAwayID, memory.DemoPlayerAwayID, testOutsiderID)
	requireKind(t, err, KindAuthorization)

	_, err = env.teams.ApproveParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testSubstituteID)
	requireKind(t, err, KindNotFound)

	p, err = env.teams.ApproveParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID)
	require.NoError(t, err)
	assert.True(t, p.Approved)

	_, err = env.teams.ApproveParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID)
	requireKind(t, err, KindPrecondition)

	overview, err := env.teams.TeamOverview(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID)
	require.NoError(t, err)
	assert.Equal(t, 3, overview.MemberCount)
	assert.True(t, overview.RequesterLeads)
}

func TestTeamService_DisbandTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)

	err := env.teams.DisbandTeam(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID)
	requireKind(t, err, KindPrecondition)

	require.NoError(t, env.proposals.Cancel(ctx, m.ID, memory.DemoLeaderAwayID))
	require.NoError(t, env.teams.DisbandTeam(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID))

	_, err = env.teams.TeamOverview(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID)
	requireKind(t, err, KindNotFound)

	_, err = env.proposals.Propose(ctx, ProposeInput{
		ProposingTeamID: memory.DemoTeamHomeID,
		TargetTeamID:    memory.DemoTeamAwayID,
		RequesterID:     memory.DemoLeaderHomeID,
	})
	requireKind(t, err, KindNotFound)

	created, err := env.teams.CreateTeam(ctx, CreateTeamInput{RequesterID: memory.DemoLeaderAwayID, Name: "Senayan United"})
	require.NoError(t, err)
	assert.NotEqual(t, memory.DemoTeamAwayID, created.ID)
}

func TestTeamService_TeamOverviewAfterSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 0, 1)

	_, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		MVPMemberID:       memory.DemoPlayerHomeID,
		MoodMakerMemberID: memory.DemoPlayerHomeID,
	})
	require.NoError(t, err)

	overview, err := env.teams.TeamOverview(ctx, memory.DemoTeamHomeID, testOutsiderID)
	require.NoError(t, err)
	assert.False(t, overview.RequesterLeads)
	assert.Equal(t, 1, overview.Record.LoseCount)
	require.NotNil(t, overview.LastMatch)
	assert.Equal(t, m.ID, overview.LastMatch.MatchID)
	assert.Equal(t, 3, overview.MemberCount)
}

func TestTeamService_DeclineAndLeave(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.teams.RequestParticipation(ctx, memory.DemoTeamAwayID, testOutsiderID)
	require.NoError(t, err)

	mine, err := env.teams.ListParticipations(ctx, testOutsiderID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Senayan United", mine[0].TeamName)
	assert.False(t, mine[0].Participation.Approved)

	err = env.teams.LeaveTeam(ctx, memory.DemoTeamAwayID, testOutsiderID)
	requireKind(t, err, KindPrecondition)

	err = env.teams.DeclineParticipation(ctx, memory.DemoTeamAwayID, memory.DemoPlayerAwayID, testOutsiderID)
	requireKind(t, err, KindAuthorization)

	require.NoError(t, env.teams.DeclineParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID))
	err = env.teams.DeclineParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID)
	requireKind(t, err, KindNotFound)

	mine, err = env.teams.ListParticipations(ctx, testOutsiderID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	// A declined member may ask again.
	_, err = env.teams.RequestParticipation(ctx, memory.DemoTeamAwayID, testOutsiderID)
	require.NoError(t, err)
	_, err = env.teams.ApproveParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID)
	require.NoError(t, err)
	err = env.teams.DeclineParticipation(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID)
	requireKind(t, err, KindPrecondition)

	require.NoError(t, env.teams.LeaveTeam(ctx, memory.DemoTeamAwayID, testOutsiderID))
	err = env.teams.LeaveTeam(ctx, memory.DemoTeamAwayID, testOutsiderID)
	requireKind(t, err, KindNotFound)

	err = env.teams.LeaveTeam(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID)
	requireKind(t, err, KindPrecondition)

	overview, err := env.teams.TeamOverview(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.MemberCount)
}

func TestTeamService_ReleaseMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	err := env.teams.ReleaseMember(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, memory.DemoLeaderAwayID)
	requireKind(t, err, KindPrecondition)

	err = env.teams.ReleaseMember(ctx, memory.DemoTeamAwayID, memory.DemoPlayerAwayID, memory.DemoLeaderAwayID)
	requireKind(t, err, KindAuthorization)

	_, err = env.teams.RequestParticipation(ctx, memory.DemoTeamAwayID, testOutsiderID)
	require.NoError(t, err)
	err = env.teams.ReleaseMember(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, testOutsiderID)
	requireKind(t, err, KindNotFound)

	require.NoError(t, env.teams.ReleaseMember(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, memory.DemoPlayerAwayID))
	err = env.teams.ReleaseMember(ctx, memory.DemoTeamAwayID, memory.DemoLeaderAwayID, memory.DemoPlayerAwayID)
	requireKind(t, err, KindNotFound)

	// A released member can no longer be fielded.
	m := env.scheduleMatch(t)
	_, err = env.lineups.SetLineup(ctx, SetLineupInput{
		MatchID:     m.ID,
		TeamID:      memory.DemoTeamAwayID,
		RequesterID: memory.DemoLeaderAwayID,
		Entries: []EntryInput{
			{MemberID: memory.DemoLeaderAwayID, Position: "defender"},
			{MemberID: memory.DemoPlayerAwayID, Position: "goalkeeper"},
		},
	})
	requireKind(t, err, KindNotFound)
}

func TestTeamService_UpdateTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.teams.UpdateTeam(ctx, UpdateTeamInput{
		TeamID:      memory.DemoTeamHomeID,
		RequesterID: memory.DemoPlayerHomeID,
		Introduce:   "hijack",
	})
	requireKind(t, err, KindAuthorization)

	_, err = env.teams.UpdateTeam(ctx, UpdateTeamInput{
		TeamID:      memory.DemoTeamHomeID,
		RequesterID: memory.DemoLeaderHomeID,
		MainArea:    strings.Repeat("x", maxMainAreaLength+1),
	})
	requireKind(t, err, KindValidation)

	updated, err := env.teams.UpdateTeam(ctx, UpdateTeamInput{
		TeamID:      memory.DemoTeamHomeID,
		RequesterID: memory.DemoLeaderHomeID,
		Introduce:   " Main tiap Minggu pagi ",
		MainArea:    "Kemang",
	})
	require.NoError(t, err)
	assert.Equal(t, "Main tiap Minggu pagi", updated.Introduce)
	assert.Equal(t, "Kemang", updated.MainArea)

	overview, err := env.teams.TeamOverview(ctx, memory.DemoTeamHomeID, memory.DemoLeaderHomeID)
	require.NoError(t, err)
	assert.Equal(t, "Kemang", overview.Team.MainArea)
}
