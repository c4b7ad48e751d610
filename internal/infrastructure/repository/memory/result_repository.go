package memory

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
)

type resultRepository struct{ t *txn }

func (r resultRepository) GetByMatchID(_ context.Context, matchID string) (out result.MatchResult, ok bool, err error) {
	err = r.t.read(func(st *state) error {
		for _, item := range st.results {
			if item.MatchID == matchID {
				out, ok = item, true
				return nil
			}
		}
		return nil
	})
	return out, ok, err
}

func (r resultRepository) Create(_ context.Context, item result.MatchResult) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.results[item.ID]; exists {
			return errors.Wrapf(ErrDuplicateKey, "result %s", item.ID)
		}
		for _, other := range st.results {
			if other.MatchID == item.MatchID {
				return errors.Wrapf(ErrDuplicateKey, "result for match %s", item.MatchID)
			}
		}
		st.results[item.ID] = item
		return nil
	})
}

func (r resultRepository) Update(_ context.Context, item result.MatchResult) error {
	return r.t.write(func(st *state) error {
		if _, exists := st.results[item.ID]; !exists {
			return errors.Newf("result %s does not exist", item.ID)
		}
		st.results[item.ID] = item
		return nil
	})
}

func (r resultRepository) Delete(_ context.Context, resultID string) error {
	return r.t.write(func(st *state) error {
		delete(st.results, resultID)
		for id, stored := range st.scorers {
			if stored.item.ResultID == resultID {
				delete(st.scorers, id)
			}
		}
		return nil
	})
}

func (r resultRepository) CreateScorers(_ context.Context, scorers []result.Scorer) error {
	return r.t.write(func(st *state) error {
		for _, s := range scorers {
			if _, exists := st.scorers[s.ID]; exists {
				return errors.Wrapf(ErrDuplicateKey, "scorer %s", s.ID)
			}
			st.scorers[s.ID] = row[result.Scorer]{seq: st.next(), item: s}
		}
		return nil
	})
}

func (r resultRepository) ListScorers(_ context.Context, resultID string) ([]result.Scorer, error) {
	var rows []row[result.Scorer]
	err := r.t.read(func(st *state) error {
		for _, stored := range st.scorers {
			if stored.item.ResultID == resultID {
				rows = append(rows, stored)
			}
		}
		return nil
	})
	slices.SortFunc(rows, func(a, b row[result.Scorer]) int { return int(a.seq - b.seq) })
	out := make([]result.Scorer, 0, len(rows))
	for _, stored := range rows {
		out = append(out, stored.item)
	}
	return out, err
}
