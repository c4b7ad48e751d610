package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
)

type memberRepository struct{ t *txn }

func (r memberRepository) GetByID(_ context.Context, memberID string) (out member.Member, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		out, ok = st.members[memberID]
		return nil
	})
	return out, ok, err
}

func (r memberRepository) GetByIDs(_ context.Context, memberIDs []string) ([]member.Member, error) {
	out := make([]member.Member, 0, len(memberIDs))
	err := r.t.read(func(st *state) error {
		for _, id := range memberIDs {
			if item, ok := st.members[id]; ok {
				out = append(out, item)
			}
		}
		return nil
	})
	return out, err
}

func (r memberRepository) Create(_ context.Context, item member.Member) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.members[item.ID]; exists {
			return errors.Wrapf(ErrDuplicateKey, "member %s", item.ID)
		}
		st.members[item.ID] = item
		return nil
	})
}

func (r memberRepository) Update(_ context.Context, item member.Member) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.members[item.ID]; !exists {
			return errors.Newf("member %s does not exist", item.ID)
		}
		if item.OpenTeamID != "" {
			for id, other := range st.members {
				if id != item.ID && other.OpenTeamID == item.OpenTeamID {
					return errors.Wrapf(ErrDuplicateKey, "team %s already has an owner", item.OpenTeamID)
				}
			}
		}
		st.members[item.ID] = item
		return nil
	})
}
