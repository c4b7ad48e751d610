package memory

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
)

type lineupRepository struct{ t *txn }

func (r lineupRepository) ListByMatchAndTeam(_ context.Context, matchID, teamID string) ([]lineup.Entry, error) {
	var rows []row[lineup.Entry]
	err := r.t.read(func(st *state) error {
		for _, stored := range st.lineups {
			if stored.item.MatchID == matchID && stored.item.TeamID == teamID {
				rows = append(rows, stored)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b row[lineup.Entry]) int {
		if a.item.Slot != b.item.Slot {
			if a.item.Slot == lineup.SlotField {
				return -1
			}
			return 1
		}
		return int(a.seq - b.seq)
	})
	out := make([]lineup.Entry, 0, len(rows))
	for _, stored := range rows {
		out = append(out, stored.item)
	}
	return out, nil
}

func (r lineupRepository) ReplaceField(_ context.Context, matchID, teamID string, entries []lineup.Entry) error {
	return r.t.write(func(st *state) error {
		for id, stored := range st.lineups {
			e := stored.item
			if e.MatchID == matchID && e.TeamID == teamID && e.Slot == lineup.SlotField {
				delete(st.lineups, id)
			}
		}
		for _, e := range entries {
			if e.MatchID != matchID || e.TeamID != teamID || e.Slot != lineup.SlotField {
				return errors.Newf("entry %s does not belong to field lineup %s/%s", e.ID, matchID, teamID)
			}
			if err := insertEntry(st, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r lineupRepository) CreateSubstitutes(_ context.Context, entries []lineup.Entry) error {
	return r.t.write(func(st *state) error {
		for _, e := range entries {
			if e.Slot != lineup.SlotSubstitute {
				return errors.Newf("entry %s is not a substitute", e.ID)
			}
			if err := insertEntry(st, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r lineupRepository) DeleteByMatch(_ context.Context, matchID string) error {
	return r.t.write(func(st *state) error {
		for id, stored := range st.lineups {
			if stored.item.MatchID == matchID {
				delete(st.lineups, id)
			}
		}
		return nil
	})
}

func insertEntry(st *state, e lineup.Entry) error {
	if _, exists := st.lineups[e.ID]; exists {
		return errors.Wrapf(ErrDuplicateKey, "lineup entry %s", e.ID)
	}
	st.lineups[e.ID] = row[lineup.Entry]{seq: st.next(), item: e}
	return nil
}
