package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type resultRepository struct {
	conn
}

func (r resultRepository) GetByMatchID(ctx context.Context, matchID string) (result.MatchResult, bool, error) {
	query, args, err := qb.Select(matchResultColumns...).From("match_results").
		Where(qb.Eq("match_public_id", matchID)).
		ForUpdate(r.lock).
		ToSQL()
	if err != nil {
		return result.MatchResult{}, false, errors.Wrap(err, "build get match result query")
	}

	var row matchResultTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return result.MatchResult{}, false, errors.Wrap(err, "get match result")
	}
	if !ok {
		return result.MatchResult{}, false, nil
	}
	return resultFromRow(row), true, nil
}

func (r resultRepository) Create(ctx context.Context, item result.MatchResult) error {
	query, args, err := qb.InsertModel("match_results", resultToRow(item), "")
	if err != nil {
		return errors.Wrap(err, "build insert match result query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert match result %s", item.ID)
}

func (r resultRepository) Update(ctx context.Context, item result.MatchResult) error {
	row := resultToRow(item)
	query, args, err := qb.Update("match_results").
		Set("score", row.Score).
		Set("opponent_score", row.OpponentScore).
		Set("mvp_nickname", row.MVPNickname).
		Set("mood_maker_nickname", row.MoodMakerNickname).
		Set("confirmed", row.Confirmed).
		Set("settled", row.Settled).
		Set("confirmed_at", row.ConfirmedAt).
		Set("settled_at", row.SettledAt).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update match result query")
	}

	affected, err := r.exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update match result %s", item.ID)
	}
	if affected == 0 {
		return errors.Newf("update match result %s: no rows", item.ID)
	}
	return nil
}

func (r resultRepository) Delete(ctx context.Context, resultID string) error {
	query, args, err := qb.DeleteFrom("result_scorers").
		Where(qb.Eq("result_public_id", resultID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete scorers query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete scorers of result %s", resultID)
	}

	query, args, err = qb.DeleteFrom("match_results").
		Where(qb.Eq("public_id", resultID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete match result query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete match result %s", resultID)
	}
	return nil
}

func (r resultRepository) CreateScorers(ctx context.Context, scorers []result.Scorer) error {
	if len(scorers) == 0 {
		return nil
	}
	rows := make([]scorerTableModel, 0, len(scorers))
	for _, s := range scorers {
		rows = append(rows, scorerTableModel{
			PublicID: s.ID,
			ResultID: s.ResultID,
			EntryID:  nullString(s.EntryID),
		})
	}

	query, args, err := qb.InsertModels("result_scorers", rows, "")
	if err != nil {
		return errors.Wrap(err, "build insert scorers query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert scorers")
}

func (r resultRepository) ListScorers(ctx context.Context, resultID string) ([]result.Scorer, error) {
	query, args, err := qb.Select(scorerColumns...).From("result_scorers").
		Where(qb.Eq("result_public_id", resultID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list scorers query")
	}

	var rows []scorerTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list scorers")
	}

	out := make([]result.Scorer, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.Scorer{
			ID:       row.PublicID,
			ResultID: row.ResultID,
			EntryID:  row.EntryID.String,
		})
	}
	return out, nil
}

func resultFromRow(row matchResultTableModel) result.MatchResult {
	return result.MatchResult{
		ID:                row.PublicID,
		MatchID:           row.MatchID,
		ReportingTeamID:   row.ReportingTeamID,
		Score:             row.Score,
		OpponentScore:     row.OpponentScore,
		MVPNickname:       row.MVPNickname,
		MoodMakerNickname: row.MoodMakerNickname,
		Confirmed:         row.Confirmed,
		Settled:           row.Settled,
		ConfirmedAt:       timeOrZero(row.ConfirmedAt),
		SettledAt:         timeOrZero(row.SettledAt),
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}

func resultToRow(item result.MatchResult) matchResultTableModel {
	return matchResultTableModel{
		PublicID:          item.ID,
		MatchID:           item.MatchID,
		ReportingTeamID:   item.ReportingTeamID,
		Score:             item.Score,
		OpponentScore:     item.OpponentScore,
		MVPNickname:       item.MVPNickname,
		MoodMakerNickname: item.MoodMakerNickname,
		Confirmed:         item.Confirmed,
		Settled:           item.Settled,
		ConfirmedAt:       nullTime(item.ConfirmedAt),
		SettledAt:         nullTime(item.SettledAt),
		CreatedAt:         item.CreatedAt.UTC(),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}
}
