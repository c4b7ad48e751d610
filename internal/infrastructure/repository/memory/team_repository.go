package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
)

type teamRepository struct{ t *txn }

func (r teamRepository) GetByID(_ context.Context, teamID string) (out team.Team, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		out, ok = st.teams[teamID]
		return nil
	})
	return out, ok, err
}

func (r teamRepository) GetByIDs(_ context.Context, teamIDs []string) ([]team.Team, error) {
	out := make([]team.Team, 0, len(teamIDs))
	err := r.t.read(func(st *state) error {
		for _, id := range teamIDs {
			if item, ok := st.teams[id]; ok {
				out = append(out, item)
			}
		}
		return nil
	})
	return out, err
}

func (r teamRepository) NameTaken(_ context.Context, name string) (taken bool, err error) {
	key := team.NormalizeName(name)
	err = r.t.read(func(st *state) error {
		for _, item := range st.teams {
			if !item.Deleted && team.NormalizeName(item.Name) == key {
				taken = true
				return nil
			}
		}
		return nil
	})
	return taken, err
}

func (r teamRepository) Create(_ context.Context, item team.Team) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.teams[item.ID]; exists {
			return errors.Wrapf(ErrDuplicateKey, "team %s", item.ID)
		}
		st.teams[item.ID] = item
		return nil
	})
}

func (r teamRepository) Update(_ context.Context, item team.Team) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.teams[item.ID]; !exists {
			return errors.Newf("team %s does not exist", item.ID)
		}
		st.teams[item.ID] = item
		return nil
	})
}

func (r teamRepository) GetRecord(_ context.Context, teamID string) (out team.Record, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		out, ok = st.records[teamID]
		return nil
	})
	return out, ok, err
}

func (r teamRepository) UpsertRecord(_ context.Context, record team.Record) error {
	return r.t.write(func(st *state) error {
		st.records[record.TeamID] = record
		return nil
	})
}
