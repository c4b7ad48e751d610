package usecase

import (
	"testing"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineupService_SetLineupReplacesField(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)
	env.setLineups(t, m)

	entries, err := env.lineups.SetLineup(ctx, SetLineupInput{
		MatchID:     m.ID,
		TeamID:      memory.DemoTeamHomeID,
		RequesterID: memory.DemoLeaderHomeID,
		Entries: []EntryInput{
			{MemberID: testSubstituteID, Position: "Goalkeeper"},
		},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ability.PositionGoalkeeper, entries[0].Position)
	assert.Equal(t, lineup.SlotField, entries[0].Slot)

	detail, err := env.matches.GetScheduled(ctx, m.ID, memory.DemoLeaderHomeID)
	require.NoError(t, err)
	require.Len(t, detail.HomeLineup, 1)
	assert.Equal(t, lineup.Registered{MemberID: testSubstituteID}, detail.HomeLineup[0].Player)
	assert.Len(t, detail.AwayLineup, 2)
}

func TestLineupService_SetLineupErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)

	base := SetLineupInput{
		MatchID:     m.ID,
		TeamID:      memory.DemoTeamHomeID,
		RequesterID: memory.DemoLeaderHomeID,
	}
	tests := []struct {
		name   string
		mutate func(*SetLineupInput)
		want   ErrorKind
	}{
		{
			name:   "empty lineup",
			mutate: func(in *SetLineupInput) {},
			want:   KindValidation,
		},
		{
			name: "unknown position",
			mutate: func(in *SetLineupInput) {
				in.Entries = []EntryInput{{MemberID: memory.DemoPlayerHomeID, Position: "sweeper"}}
			},
			want: KindValidation,
		},
		{
			name: "duplicate member",
			mutate: func(in *SetLineupInput) {
				in.Entries = []EntryInput{
					{MemberID: memory.DemoPlayerHomeID, Position: "striker"},
					{MemberID: memory.DemoPlayerHomeID, Position: "defender"},
				}
			},
			want: KindValidation,
		},
		{
			name: "anonymous with member",
			mutate: func(in *SetLineupInput) {
				in.Entries = []EntryInput{{MemberID: memory.DemoPlayerHomeID, Anonymous: true, Position: "striker"}}
			},
			want: KindValidation,
		},
		{
			name: "member of the other team",
			mutate: func(in *SetLineupInput) {
				in.Entries = []EntryInput{{MemberID: memory.DemoPlayerAwayID, Position: "striker"}}
			},
			want: KindNotFound,
		},
		{
			name: "team not in match",
			mutate: func(in *SetLineupInput) {
				in.TeamID = "another-team"
				in.Entries = []EntryInput{{Anonymous: true, Position: "striker"}}
			},
			want: KindValidation,
		},
		{
			name: "opponent leader",
			mutate: func(in *SetLineupInput) {
				in.RequesterID = memory.DemoLeaderAwayID
				in.Entries = []EntryInput{{Anonymous: true, Position: "striker"}}
			},
			want: KindAuthorization,
		},
		{
			name: "missing match",
			mutate: func(in *SetLineupInput) {
				in.MatchID = "missing"
				in.Entries = []EntryInput{{Anonymous: true, Position: "striker"}}
			},
			want: KindNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := env.lineups.SetLineup(ctx, input)
			requireKind(t, err, tc.want)
		})
	}
}

func TestLineupService_SetLineupAfterSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 1, 0)

	_, err := env.settlements.RecordResult(ctx, RecordResultInput{
		MatchID:           m.ID,
		RequesterID:       memory.DemoLeaderHomeID,
		MVPMemberID:       memory.DemoLeaderHomeID,
		MoodMakerMemberID: memory.DemoPlayerHomeID,
	})
	require.NoError(t, err)

	_, err = env.lineups.SetLineup(ctx, SetLineupInput{
		MatchID:     m.ID,
		TeamID:      memory.DemoTeamAwayID,
		RequesterID: memory.DemoLeaderAwayID,
		Entries:     []EntryInput{{Anonymous: true, Position: "striker"}},
	})
	requireKind(t, err, KindPrecondition)
}
