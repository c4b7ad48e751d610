package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type participationRepository struct {
	conn
}

func (r participationRepository) Get(ctx context.Context, teamID, memberID string) (participation.Participation, bool, error) {
	query, args, err := qb.Select(participationColumns...).From("participations").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("member_public_id", memberID),
		).
		ToSQL()
	if err != nil {
		return participation.Participation{}, false, errors.Wrap(err, "build get participation query")
	}

	var row participationTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return participation.Participation{}, false, errors.Wrap(err, "get participation")
	}
	if !ok {
		return participation.Participation{}, false, nil
	}
	return participationFromRow(row), true, nil
}

func (r participationRepository) ListByMember(ctx context.Context, memberID string) ([]participation.Participation, error) {
	query, args, err := qb.Select(participationColumns...).From("participations").
		Where(qb.Eq("member_public_id", memberID)).
		OrderBy("created_at", "team_public_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list participations query")
	}

	var rows []participationTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list participations of member %s", memberID)
	}
	out := make([]participation.Participation, 0, len(rows))
	for _, row := range rows {
		out = append(out, participationFromRow(row))
	}
	return out, nil
}

func (r participationRepository) Create(ctx context.Context, p participation.Participation) error {
	query, args, err := qb.InsertModel("participations", participationTableModel{
		TeamID:     p.TeamID,
		MemberID:   p.MemberID,
		Approved:   p.Approved,
		CreatedAt:  p.CreatedAt.UTC(),
		ApprovedAt: nullTime(p.ApprovedAt),
	}, "")
	if err != nil {
		return errors.Wrap(err, "build insert participation query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert participation %s/%s", p.TeamID, p.MemberID)
}

func (r participationRepository) Update(ctx context.Context, p participation.Participation) error {
	query, args, err := qb.Update("participations").
		Set("approved", p.Approved).
		Set("approved_at", nullTime(p.ApprovedAt)).
		Where(
			qb.Eq("team_public_id", p.TeamID),
			qb.Eq("member_public_id", p.MemberID),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update participation query")
	}

	affected, err := r.exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update participation %s/%s", p.TeamID, p.MemberID)
	}
	if affected == 0 {
		return errors.Newf("update participation %s/%s: no rows", p.TeamID, p.MemberID)
	}
	return nil
}

func (r participationRepository) Delete(ctx context.Context, teamID, memberID string) error {
	query, args, err := qb.DeleteFrom("participations").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("member_public_id", memberID),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete participation query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete participation %s/%s", teamID, memberID)
	}
	return nil
}

func (r participationRepository) CountApproved(ctx context.Context, teamID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("participations").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("approved", true),
		).
		ToSQL()
	if err != nil {
		return 0, errors.Wrap(err, "build count participations query")
	}

	var count int
	if _, err := r.get(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrap(err, "count approved participations")
	}
	return count, nil
}

func participationFromRow(row participationTableModel) participation.Participation {
	return participation.Participation{
		TeamID:     row.TeamID,
		MemberID:   row.MemberID,
		Approved:   row.Approved,
		CreatedAt:  row.CreatedAt.UTC(),
		ApprovedAt: timeOrZero(row.ApprovedAt),
	}
}
