package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

const (
	testSubstituteID = "0190f5a0-0000-7000-8000-000000000005"
	testOutsiderID   = "0190f5a0-0000-7000-8000-000000000006"
)

var testNow = time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC)

type sequenceIDGenerator struct {
	next atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("id-%03d", g.next.Add(1)), nil
}

type countingInvalidator struct {
	calls atomic.Int32
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.calls.Add(1)
}

type testEnv struct {
	store       *memory.Store
	teams       *TeamService
	proposals   *ProposalService
	matches     *MatchService
	lineups     *LineupService
	settlements *SettlementService
	rankings    *RankingService
	invalidated *countingInvalidator
}

// newTestEnv seeds the demo roster plus an approved home substitute and a
// member without a team.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := t.Context()
	store := memory.NewStore()
	require.NoError(t, memory.SeedDemo(ctx, store, testNow))
	require.NoError(t, store.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		if err := repos.Members.Create(ctx, member.Member{ID: testSubstituteID, Nickname: "ucup", Position: ability.PositionGoalkeeper}); err != nil {
			return err
		}
		if err := repos.Members.Create(ctx, member.Member{ID: testOutsiderID, Nickname: "joko", Position: ability.PositionStriker}); err != nil {
			return err
		}
		return repos.Participations.Create(ctx, participation.Participation{
			TeamID:     memory.DemoTeamHomeID,
			MemberID:   testSubstituteID,
			Approved:   true,
			CreatedAt:  testNow,
			ApprovedAt: testNow,
		})
	}))

	logger := logging.NewNop()
	idGen := &sequenceIDGenerator{}
	now := func() time.Time { return testNow }

	env := &testEnv{
		store:       store,
		teams:       NewTeamService(store, idGen, logger),
		proposals:   NewProposalService(store, idGen, logger),
		matches:     NewMatchService(store, logger),
		lineups:     NewLineupService(store, idGen, logger),
		rankings:    NewRankingService(store, RankingServiceConfig{DefaultLimit: 5, Workers: 2, CacheTTL: time.Minute}, logger),
		invalidated: &countingInvalidator{},
	}
	env.settlements = NewSettlementService(store, idGen, env.invalidated, logger)

	env.teams.now = now
	env.proposals.now = now
	env.matches.now = now
	env.settlements.now = now
	return env
}

// scheduleMatch has the away team propose to the home team and the home
// leader accept.
func (e *testEnv) scheduleMatch(t *testing.T) match.Scheduled {
	t.Helper()

	p, err := e.proposals.Propose(t.Context(), ProposeInput{
		ProposingTeamID: memory.DemoTeamAwayID,
		TargetTeamID:    memory.DemoTeamHomeID,
		RequesterID:     memory.DemoLeaderAwayID,
		Greeting:        "friendly on saturday?",
	})
	require.NoError(t, err)

	m, err := e.proposals.Approve(t.Context(), ApproveInput{
		ProposalID:  p.ID,
		RequesterID: memory.DemoLeaderHomeID,
		MatchDate:   testNow.Add(72 * time.Hour),
		Location:    "Lapangan Blok S",
	})
	require.NoError(t, err)
	return m
}

func (e *testEnv) setLineups(t *testing.T, m match.Scheduled) {
	t.Helper()

	_, err := e.lineups.SetLineup(t.Context(), SetLineupInput{
		MatchID:     m.ID,
		TeamID:      memory.DemoTeamHomeID,
		RequesterID: memory.DemoLeaderHomeID,
		Entries: []EntryInput{
			{MemberID: memory.DemoLeaderHomeID, Position: "midfielder"},
			{MemberID: memory.DemoPlayerHomeID, Position: "striker"},
			{Anonymous: true, Position: "defender"},
		},
	})
	require.NoError(t, err)

	_, err = e.lineups.SetLineup(t.Context(), SetLineupInput{
		MatchID:     m.ID,
		TeamID:      memory.DemoTeamAwayID,
		RequesterID: memory.DemoLeaderAwayID,
		Entries: []EntryInput{
			{MemberID: memory.DemoLeaderAwayID, Position: "defender"},
			{MemberID: memory.DemoPlayerAwayID, Position: "goalkeeper"},
		},
	})
	require.NoError(t, err)
}

// confirmScore reports and confirms a score from the home side.
func (e *testEnv) confirmScore(t *testing.T, m match.Scheduled, home, away int) {
	t.Helper()

	_, err := e.settlements.ReportScore(t.Context(), ScoreInput{
		MatchID:       m.ID,
		RequesterID:   memory.DemoLeaderHomeID,
		Score:         home,
		OpponentScore: away,
	})
	require.NoError(t, err)
	_, err = e.settlements.ConfirmScore(t.Context(), m.ID, memory.DemoLeaderHomeID)
	require.NoError(t, err)
}

func requireKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, KindOf(err), "error: %v", err)
}
