package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type teamRepository struct {
	conn
}

func (r teamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, errors.Wrap(err, "build get team query")
	}

	var row teamTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return team.Team{}, false, errors.Wrap(err, "get team")
	}
	if !ok {
		return team.Team{}, false, nil
	}
	return teamFromRow(row), true, nil
}

func (r teamRepository) GetByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(qb.InStrings("public_id", teamIDs)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list teams query")
	}

	var rows []teamTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r teamRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("teams").
		Where(
			qb.Expr("lower(name) = ?", team.NormalizeName(name)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, errors.Wrap(err, "build team name query")
	}

	var count int
	if _, err := r.get(ctx, &count, query, args...); err != nil {
		return false, errors.Wrap(err, "count teams by name")
	}
	return count > 0, nil
}

func (r teamRepository) Create(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertModel("teams", teamToRow(item), "")
	if err != nil {
		return errors.Wrap(err, "build insert team query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert team %s", item.ID)
}

func (r teamRepository) Update(ctx context.Context, item team.Team) error {
	row := teamToRow(item)
	query, args, err := qb.Update("teams").
		Set("name", row.Name).
		Set("leader_member_public_id", row.LeaderID).
		Set("introduce", row.Introduce).
		Set("main_area", row.MainArea).
		Set("recruiting", row.Recruiting).
		Set("recruit_question", row.RecruitQuestion).
		Set("match_seeking", row.MatchSeeking).
		Set("updated_at", row.UpdatedAt).
		Set("deleted_at", row.DeletedAt).
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update team query")
	}

	affected, err := r.exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "update team %s", item.ID)
	}
	if affected == 0 {
		return errors.Newf("update team %s: no rows", item.ID)
	}
	return nil
}

func (r teamRepository) GetRecord(ctx context.Context, teamID string) (team.Record, bool, error) {
	query, args, err := qb.Select(teamRecordColumns...).From("team_records").
		Where(qb.Eq("team_public_id", teamID)).
		ForUpdate(r.lock).
		ToSQL()
	if err != nil {
		return team.Record{}, false, errors.Wrap(err, "build get team record query")
	}

	var row teamRecordTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return team.Record{}, false, errors.Wrap(err, "get team record")
	}
	if !ok {
		return team.Record{}, false, nil
	}
	return team.Record(row), true, nil
}

func (r teamRepository) UpsertRecord(ctx context.Context, record team.Record) error {
	query, args, err := qb.InsertModel("team_records", teamRecordTableModel(record), `ON CONFLICT (team_public_id) DO UPDATE SET
	total_game_count = EXCLUDED.total_game_count,
	win_count = EXCLUDED.win_count,
	draw_count = EXCLUDED.draw_count,
	lose_count = EXCLUDED.lose_count,
	win_rate = EXCLUDED.win_rate,
	updated_at = NOW()`)
	if err != nil {
		return errors.Wrap(err, "build upsert team record query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "upsert record of team %s", record.TeamID)
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:              row.PublicID,
		Name:            row.Name,
		LeaderID:        row.LeaderID,
		Introduce:       row.Introduce,
		MainArea:        row.MainArea,
		Recruiting:      row.Recruiting,
		RecruitQuestion: row.RecruitQuestion,
		MatchSeeking:    row.MatchSeeking,
		Deleted:         row.DeletedAt != nil,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}

func teamToRow(item team.Team) teamTableModel {
	row := teamTableModel{
		PublicID:        item.ID,
		Name:            item.Name,
		LeaderID:        item.LeaderID,
		Introduce:       item.Introduce,
		MainArea:        item.MainArea,
		Recruiting:      item.Recruiting,
		RecruitQuestion: item.RecruitQuestion,
		MatchSeeking:    item.MatchSeeking,
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
	if item.Deleted {
		deletedAt := item.UpdatedAt
		if deletedAt.IsZero() {
			deletedAt = time.Now()
		}
		row.DeletedAt = nullTime(deletedAt)
	}
	return row
}
