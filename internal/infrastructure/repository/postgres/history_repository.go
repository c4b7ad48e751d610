package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type historyRepository struct {
	conn
}

func (r historyRepository) Create(ctx context.Context, h history.History) error {
	query, args, err := qb.InsertModel("match_histories", historyTableModel{
		PublicID:   h.ID,
		MatchID:    h.MatchID,
		ResultID:   h.ResultID,
		HomeTeamID: h.HomeTeamID,
		AwayTeamID: h.AwayTeamID,
		HomeScore:  h.HomeScore,
		AwayScore:  h.AwayScore,
		MatchDate:  h.MatchDate.UTC(),
		CreatedAt:  h.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return errors.Wrap(err, "build insert history query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert history %s", h.ID)
}

func (r historyRepository) GetByMatchID(ctx context.Context, matchID string) (history.History, bool, error) {
	query, args, err := qb.Select(historyColumns...).From("match_histories").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return history.History{}, false, errors.Wrap(err, "build get history query")
	}

	var row historyTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return history.History{}, false, errors.Wrap(err, "get history")
	}
	if !ok {
		return history.History{}, false, nil
	}
	return historyFromRow(row), true, nil
}

func (r historyRepository) ListByTeam(ctx context.Context, teamID string, limit int) ([]history.History, error) {
	builder := qb.Select(historyColumns...).From("match_histories").
		Where(qb.Or(
			qb.Eq("home_team_public_id", teamID),
			qb.Eq("away_team_public_id", teamID),
		)).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list history query")
	}

	var rows []historyTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list history")
	}

	out := make([]history.History, 0, len(rows))
	for _, row := range rows {
		out = append(out, historyFromRow(row))
	}
	return out, nil
}

func historyFromRow(row historyTableModel) history.History {
	return history.History{
		ID:         row.PublicID,
		MatchID:    row.MatchID,
		ResultID:   row.ResultID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		MatchDate:  row.MatchDate.UTC(),
		CreatedAt:  row.CreatedAt.UTC(),
	}
}
