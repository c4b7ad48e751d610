package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const concurrentCallers = 20

// runConcurrently starts n callers together and returns their errors by index.
func runConcurrently(n int, call func() error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = call()
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func TestProposalService_ConcurrentApproveSchedulesOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	p, err := env.proposals.Propose(ctx, ProposeInput{
		ProposingTeamID: memory.DemoTeamAwayID,
		TargetTeamID:    memory.DemoTeamHomeID,
		RequesterID:     memory.DemoLeaderAwayID,
	})
	require.NoError(t, err)

	errs := runConcurrently(concurrentCallers, func() error {
		_, err := env.proposals.Approve(ctx, ApproveInput{
			ProposalID:  p.ID,
			RequesterID: memory.DemoLeaderHomeID,
			MatchDate:   testNow.Add(48 * time.Hour),
			Location:    "Lapangan Blok S",
		})
		return err
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, KindConflict, KindOf(err), "error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	scheduled, err := env.matches.ListScheduled(ctx, memory.DemoTeamHomeID, memory.DemoLeaderHomeID)
	require.NoError(t, err)
	assert.Len(t, scheduled, 1)
}

func TestSettlementService_ConcurrentRecordResultSettlesOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	m := env.scheduleMatch(t)
	env.setLineups(t, m)
	env.confirmScore(t, m, 2, 1)

	errs := runConcurrently(concurrentCallers, func() error {
		_, err := env.settlements.RecordResult(ctx, RecordResultInput{
			MatchID:           m.ID,
			RequesterID:       memory.DemoLeaderHomeID,
			MVPMemberID:       memory.DemoPlayerHomeID,
			MoodMakerMemberID: memory.DemoLeaderHomeID,
		})
		return err
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, KindPrecondition, KindOf(err), "error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	abilities := loadAbilities(t, env.store)
	assert.Equal(t, 1, abilities[memory.DemoPlayerHomeID].MVPPoint)
	assert.Equal(t, 1, abilities[memory.DemoLeaderHomeID].CharmPoint)

	history, err := env.matches.TeamHistory(ctx, memory.DemoTeamHomeID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
