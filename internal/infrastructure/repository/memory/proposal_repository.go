package memory

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
)

type proposalRepository struct{ t *txn }

func (r proposalRepository) GetByID(_ context.Context, proposalID string) (out proposal.Proposal, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		var stored row[proposal.Proposal]
		stored, ok = st.proposals[proposalID]
		out = stored.item
		return nil
	})
	return out, ok, err
}

func (r proposalRepository) ListByPair(_ context.Context, proposerTeamID, targetTeamID string) ([]proposal.Proposal, error) {
	return r.list(func(p proposal.Proposal) bool {
		return p.ProposerTeamID == proposerTeamID && p.TargetTeamID == targetTeamID
	})
}

func (r proposalRepository) ListByTarget(_ context.Context, teamID string) ([]proposal.Proposal, error) {
	return r.list(func(p proposal.Proposal) bool { return p.TargetTeamID == teamID })
}

func (r proposalRepository) ListByProposer(_ context.Context, teamID string) ([]proposal.Proposal, error) {
	return r.list(func(p proposal.Proposal) bool { return p.ProposerTeamID == teamID })
}

func (r proposalRepository) list(match func(proposal.Proposal) bool) ([]proposal.Proposal, error) {
	var rows []row[proposal.Proposal]
	err := r.t.read(func(st *state) error {
		for _, stored := range st.proposals {
			if match(stored.item) {
				rows = append(rows, stored)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b row[proposal.Proposal]) int {
		if c := a.item.CreatedAt.Compare(b.item.CreatedAt); c != 0 {
			return c
		}
		return int(a.seq - b.seq)
	})
	out := make([]proposal.Proposal, 0, len(rows))
	for _, stored := range rows {
		out = append(out, stored.item)
	}
	return out, nil
}

func (r proposalRepository) Create(_ context.Context, p proposal.Proposal) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.proposals[p.ID]; exists {
			return errors.Wrapf(ErrDuplicateKey, "proposal %s", p.ID)
		}
		st.proposals[p.ID] = row[proposal.Proposal]{seq: st.next(), item: p}
		return nil
	})
}

func (r proposalRepository) Update(_ context.Context, p proposal.Proposal) error {
	return r.t.write(func(st *state) error {
		stored, exists := st.proposals[p.ID]
		if !exists {
			return errors.Newf("proposal %s does not exist", p.ID)
		}
		stored.item = p
		st.proposals[p.ID] = stored
		return nil
	})
}

func (r proposalRepository) Delete(_ context.Context, proposalID string) error {
	return r.t.write(func(st *state) error {
		delete(st.proposals, proposalID)
		return nil
	})
}
