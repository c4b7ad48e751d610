package memory

import (
	"context"
	"maps"
	"sync"

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
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
)

// ErrReadOnly is returned by writes attempted inside View.
var ErrReadOnly = errors.New("memory store: write in read-only unit of work")

// ErrDuplicateKey mirrors a unique index violation.
var ErrDuplicateKey = uow.ErrDuplicate

type row[T any] struct {
	seq  int64
	item T
}

type state struct {
	seq            int64
	teams          map[string]team.Team
	records        map[string]team.Record
	members        map[string]member.Member
	participations map[string]participation.Participation
	proposals      map[string]row[proposal.Proposal]
	matches        map[string]match.Scheduled
	lineups        map[string]row[lineup.Entry]
	results        map[string]result.MatchResult
	scorers        map[string]row[result.Scorer]
	histories      map[string]history.History
	abilities      map[string]ability.Ability
}

func newState() *state {
	return &state{
		teams:          make(map[string]team.Team),
		records:        make(map[string]team.Record),
		members:        make(map[string]member.Member),
		participations: make(map[string]participation.Participation),
		proposals:      make(map[string]row[proposal.Proposal]),
		matches:        make(map[string]match.Scheduled),
		lineups:        make(map[string]row[lineup.Entry]),
		results:        make(map[string]result.MatchResult),
		scorers:        make(map[string]row[result.Scorer]),
		histories:      make(map[string]history.History),
		abilities:      make(map[string]ability.Ability),
	}
}

// clone copies every table. Stored values hold no shared slices, so a map
// copy is a full snapshot.
func (s *state) clone() *state {
	return &state{
		seq:            s.seq,
		teams:          maps.Clone(s.teams),
		records:        maps.Clone(s.records),
		members:        maps.Clone(s.members),
		participations: maps.Clone(s.participations),
		proposals:      maps.Clone(s.proposals),
		matches:        maps.Clone(s.matches),
		lineups:        maps.Clone(s.lineups),
		results:        maps.Clone(s.results),
		scorers:        maps.Clone(s.scorers),
		histories:      maps.Clone(s.histories),
		abilities:      maps.Clone(s.abilities),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store is an in-process implementation of every repository. Updates are
// serialized by one lock and rolled back by restoring a snapshot.
type Store struct {
	mu    sync.RWMutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var _ uow.Transactor = (*Store)(nil)

func (s *Store) Update(ctx context.Context, work uow.Work) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := work(ctx, repositories(&txn{st: s.state, writable: true})); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) View(ctx context.Context, work uow.Work) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return work(ctx, repositories(&txn{st: s.state}))
}

// Repositories returns stores that each run in their own unit of work, for
// seeding and for callers outside a transaction.
func (s *Store) Repositories() uow.Repositories {
	return repositories(&txn{store: s, writable: true})
}

// txn binds repositories either to a locked state or, when store is set, to
// a fresh lock per call.
type txn struct {
	st       *state
	store    *Store
	writable bool
}

func (t *txn) read(fn func(st *state) error) error {
	if t.store != nil {
		t.store.mu.RLock()
		defer t.store.mu.RUnlock()
		return fn(t.store.state)
	}
	return fn(t.st)
}

func (t *txn) write(fn func(st *state) error) error {
	if !t.writable {
		return ErrReadOnly
	}
	if t.store != nil {
		t.store.mu.Lock()
		defer t.store.mu.Unlock()
		return fn(t.store.state)
	}
	return fn(t.st)
}

func repositories(t *txn) uow.Repositories {
	return uow.Repositories{
		Teams:          teamRepository{t},
		Members:        memberRepository{t},
		Participations: participationRepository{t},
		Proposals:      proposalRepository{t},
		Matches:        matchRepository{t},
		Lineups:        lineupRepository{t},
		Results:        resultRepository{t},
		Histories:      historyRepository{t},
		Abilities:      abilityRepository{t},
	}
}

func compositeKey(a, b string) string {
	return a + "::" + b
}
