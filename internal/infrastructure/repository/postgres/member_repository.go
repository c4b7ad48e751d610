package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type memberRepository struct {
	conn
}

func (r memberRepository) GetByID(ctx context.Context, memberID string) (member.Member, bool, error) {
	query, args, err := qb.Select(memberColumns...).From("members").
		Where(qb.Eq("public_id", memberID)).
		ToSQL()
	if err != nil {
		return member.Member{}, false, errors.Wrap(err, "build get member query")
	}

	var row memberTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return member.Member{}, false, errors.Wrap(err, "get member")
	}
	if !ok {
		return member.Member{}, false, nil
	}
	return memberFromRow(row), true, nil
}

func (r memberRepository) GetByIDs(ctx context.Context, memberIDs []string) ([]member.Member, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	query, args, err := qb.Select(memberColumns...).From("members").
		Where(qb.InStrings("public_id", memberIDs)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list members query")
	}

	var rows []memberTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list members")
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}
	return out, nil
}

func (r memberRepository) Create(ctx context.Context, item member.Member) error {
	query, args, err := qb.InsertModel("members", memberToRow(item), "")
	if err != nil {
		return errors.Wrap(err, "build insert member query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert member %s", item.ID)
}

func (r memberRepository) Update(ctx context.Context, item member.Member) error {
	row := memberToRow(item)
	query, args, err := qb.Update("members").
		Set("nickname", row.Nickname).
		Set("position", row.Position).
		Set("contact", row.Contact).
		Set("phone", row.Phone).
		Set("open_team_public_id", row.OpenTeamID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update member query")
	}

	affected, err := r.exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "update member %s", item.ID)
	}
	if affected == 0 {
		return errors.Newf("update member %s: no rows", item.ID)
	}
	return nil
}

func memberFromRow(row memberTableModel) member.Member {
	return member.Member{
		ID:         row.PublicID,
		Nickname:   row.Nickname,
		Position:   ability.Position(row.Position),
		Contact:    row.Contact,
		Phone:      row.Phone,
		OpenTeamID: row.OpenTeamID.String,
	}
}

func memberToRow(item member.Member) memberTableModel {
	return memberTableModel{
		PublicID:   item.ID,
		Nickname:   item.Nickname,
		Position:   string(item.Position),
		Contact:    item.Contact,
		Phone:      item.Phone,
		OpenTeamID: nullString(item.OpenTeamID),
	}
}
