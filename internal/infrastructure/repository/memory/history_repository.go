package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
)

type historyRepository struct{ t *txn }

func (r historyRepository) Create(_ context.Context, h history.History) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.histories[h.ID]; exists {
			return errors.Wrapf(ErrDuplicateKey, "history %s", h.ID)
		}
		for _, other := range st.histories {
			if other.MatchID == h.MatchID {
				return errors.Wrapf(ErrDuplicateKey, "history for match %s", h.MatchID)
			}
		}
		st.histories[h.ID] = h
		return nil
	})
}

func (r historyRepository) GetByMatchID(_ context.Context, matchID string) (out history.History, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		for _, item := range st.histories {
			if item.MatchID == matchID {
				out, ok = item, true
				return nil
			}
		}
		return nil
	})
	return out, ok, err
}

func (r historyRepository) ListByTeam(_ context.Context, teamID string, limit int) ([]history.History, error) {
	var out []history.History
	err := r.t.read(func(st *state) error {
		for _, item := range st.histories {
			if item.HomeTeamID == teamID || item.AwayTeamID == teamID {
				out = append(out, item)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b history.History) int {
		if c := b.MatchDate.Compare(a.MatchDate); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}
