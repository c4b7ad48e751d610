package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type lineupRepository struct {
	conn
}

func (r lineupRepository) ListByMatchAndTeam(ctx context.Context, matchID, teamID string) ([]lineup.Entry, error) {
	query, args, err := qb.Select(lineupEntryColumns...).From("lineup_entries").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_public_id", teamID),
		).
		OrderBy("CASE slot WHEN 'field' THEN 0 ELSE 1 END", "id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list lineup query")
	}

	var rows []lineupEntryTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list lineup")
	}

	out := make([]lineup.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out, nil
}

func (r lineupRepository) ReplaceField(ctx context.Context, matchID, teamID string, entries []lineup.Entry) error {
	query, args, err := qb.DeleteFrom("lineup_entries").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_public_id", teamID),
			qb.Eq("slot", string(lineup.SlotField)),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete field lineup query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "delete field lineup")
	}

	return r.insert(ctx, entries)
}

func (r lineupRepository) CreateSubstitutes(ctx context.Context, entries []lineup.Entry) error {
	for _, e := range entries {
		if e.Slot != lineup.SlotSubstitute {
			return errors.Newf("entry %s is not a substitute", e.ID)
		}
	}
	return r.insert(ctx, entries)
}

func (r lineupRepository) insert(ctx context.Context, entries []lineup.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]lineupEntryTableModel, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryToRow(e))
	}

	query, args, err := qb.InsertModels("lineup_entries", rows, "")
	if err != nil {
		return errors.Wrap(err, "build insert lineup query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert lineup entries")
}

func (r lineupRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("lineup_entries").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete lineups query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete lineups of match %s", matchID)
	}
	return nil
}

func entryFromRow(row lineupEntryTableModel) lineup.Entry {
	var player lineup.Player = lineup.Anonymous{}
	if row.MemberID.Valid && row.MemberID.String != "" {
		player = lineup.Registered{MemberID: row.MemberID.String}
	}
	return lineup.Entry{
		ID:       row.PublicID,
		MatchID:  row.MatchID,
		TeamID:   row.TeamID,
		ResultID: row.ResultID.String,
		Slot:     lineup.Slot(row.Slot),
		Position: ability.Position(row.Position),
		Player:   player,
	}
}

func entryToRow(e lineup.Entry) lineupEntryTableModel {
	memberID, _ := lineup.MemberIDOf(e.Player)
	return lineupEntryTableModel{
		PublicID: e.ID,
		MatchID:  e.MatchID,
		TeamID:   e.TeamID,
		ResultID: nullString(e.ResultID),
		Slot:     string(e.Slot),
		Position: string(e.Position),
		MemberID: nullString(memberID),
	}
}
