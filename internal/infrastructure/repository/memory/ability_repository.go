package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
)

type abilityRepository struct{ t *txn }

func (r abilityRepository) Get(_ context.Context, memberID string) (out ability.Ability, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		out, ok = st.abilities[memberID]
		return nil
	})
	return out, ok, err
}

func (r abilityRepository) GetMany(_ context.Context, memberIDs []string) ([]ability.Ability, error) {
	out := make([]ability.Ability, 0, len(memberIDs))
	err := r.t.read(func(st *state) error {
		for _, id := range memberIDs {
			if item, ok := st.abilities[id]; ok {
				out = append(out, item)
			}
		}
		return nil
	})
	return out, err
}

func (r abilityRepository) Upsert(_ context.Context, abilities []ability.Ability) error {
	return r.t.write(func(st *state) error {
		for _, a := range abilities {
			st.abilities[a.MemberID] = a
		}
		return nil
	})
}

func (r abilityRepository) Top(_ context.Context, category ability.Category, limit int) ([]ability.Ability, error) {
	var out []ability.Ability
	err := r.t.read(func(st *state) error {
		out = make([]ability.Ability, 0, len(st.abilities))
		for _, a := range st.abilities {
			out = append(out, a)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b ability.Ability) int {
		if pa, pb := a.Points(category), b.Points(category); pa != pb {
			return pb - pa
		}
		return strings.Compare(a.MemberID, b.MemberID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r abilityRepository) CountAbove(_ context.Context, category ability.Category, points int) (count int, err error) {
	err = r.t.read(func(st *state) error {
		for _, a := range st.abilities {
			if a.Points(category) > points {
				count++
			}
		}
		return nil
	})
	return count, err
}
