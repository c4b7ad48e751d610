package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
)

type participationRepository struct{ t *txn }

func (r participationRepository) Get(_ context.Context, teamID, memberID string) (out participation.Participation, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		out, ok = st.participations[compositeKey(teamID, memberID)]
		return nil
	})
	return out, ok, err
}

func (r participationRepository) ListByMember(_ context.Context, memberID string) (out []participation.Participation, err error) {
	err = r.t.read(func(st *state) error {
		for _, p := range st.participations {
			if p.MemberID == memberID {
				out = append(out, p)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b participation.Participation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})
	return out, err
}

func (r participationRepository) Create(_ context.Context, p participation.Participation) error {
	return r.t.write(func(st *state) error {
		key := compositeKey(p.TeamID, p.MemberID)
		if _, exists := st.participations[key]; exists {
			return errors.Wrapf(ErrDuplicateKey, "participation %s", key)
		}
		st.participations[key] = p
		return nil
	})
}

func (r participationRepository) Update(_ context.Context, p participation.Participation) error {
	return r.t.write(func(st *state) error {
		key := compositeKey(p.TeamID, p.MemberID)
		if _, exists := st.participations[key]; !exists {
			return errors.Newf("participation %s does not exist", key)
		}
		st.participations[key] = p
		return nil
	})
}

func (r participationRepository) Delete(_ context.Context, teamID, memberID string) error {
	return r.t.write(func(st *state) error {
		delete(st.participations, compositeKey(teamID, memberID))
		return nil
	})
}

func (r participationRepository) CountApproved(_ context.Context, teamID string) (count int, err error) {
	err = r.t.read(func(st *state) error {
		for _, p := range st.participations {
			if p.TeamID == teamID && p.Approved {
				count++
			}
		}
		return nil
	})
	return count, err
}
