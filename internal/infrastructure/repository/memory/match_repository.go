package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
)

type matchRepository struct{ t *txn }

func (r matchRepository) GetByID(_ context.Context, matchID string) (out match.Scheduled, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		out, ok = st.matches[matchID]
		return nil
	})
	return out, ok, err
}

func (r matchRepository) GetByProposalID(_ context.Context, proposalID string) (out match.Scheduled, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		for _, item := range st.matches {
			if item.ProposalID == proposalID {
				out, ok = item, true
				return nil
			}
		}
		return nil
	})
	return out, ok, err
}

func (r matchRepository) ListByTeam(_ context.Context, teamID string) ([]match.Scheduled, error) {
	var out []match.Scheduled
	err := r.t.read(func(st *state) error {
		for _, item := range st.matches {
			if item.Involves(teamID) {
				out = append(out, item)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b match.Scheduled) int {
		if c := a.MatchDate.Compare(b.MatchDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, err
}

func (r matchRepository) Create(_ context.Context, item match.Scheduled) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.matches[item.ID]; exists {
			return errors.Wrapf(ErrDuplicateKey, "match %s", item.ID)
		}
		for _, other := range st.matches {
			if other.ProposalID == item.ProposalID {
				return errors.Wrapf(ErrDuplicateKey, "match for proposal %s", item.ProposalID)
			}
		}
		st.matches[item.ID] = item
		return nil
	})
}

func (r matchRepository) Delete(_ context.Context, matchID string) error {
	return r.t.write(func(st *state) error {
		delete(st.matches, matchID)
		return nil
	})
}
