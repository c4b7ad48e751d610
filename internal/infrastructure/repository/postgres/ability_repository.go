package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

var categoryColumns = map[ability.Category]string{
	ability.CategoryMVP:        "mvp_point",
	ability.CategoryStriker:    "striker_point",
	ability.CategoryMidfielder: "midfielder_point",
	ability.CategoryDefender:   "defender_point",
	ability.CategoryGoalkeeper: "goalkeeper_point",
	ability.CategoryCharm:      "charm_point",
}

type abilityRepository struct {
	conn
}

func (r abilityRepository) Get(ctx context.Context, memberID string) (ability.Ability, bool, error) {
	query, args, err := qb.Select(abilityColumns...).From("abilities").
		Where(qb.Eq("member_public_id", memberID)).
		ToSQL()
	if err != nil {
		return ability.Ability{}, false, errors.Wrap(err, "build get ability query")
	}

	var row abilityTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return ability.Ability{}, false, errors.Wrap(err, "get ability")
	}
	if !ok {
		return ability.Ability{}, false, nil
	}
	return ability.Ability(row), true, nil
}

func (r abilityRepository) GetMany(ctx context.Context, memberIDs []string) ([]ability.Ability, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	query, args, err := qb.Select(abilityColumns...).From("abilities").
		Where(qb.InStrings("member_public_id", memberIDs)).
		OrderBy("member_public_id").
		ForUpdate(r.lock).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list abilities query")
	}

	var rows []abilityTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list abilities")
	}

	out := make([]ability.Ability, 0, len(rows))
	for _, row := range rows {
		out = append(out, ability.Ability(row))
	}
	return out, nil
}

func (r abilityRepository) Upsert(ctx context.Context, abilities []ability.Ability) error {
	if len(abilities) == 0 {
		return nil
	}
	rows := make([]abilityTableModel, 0, len(abilities))
	for _, a := range abilities {
		rows = append(rows, abilityTableModel(a))
	}

	query, args, err := qb.InsertModels("abilities", rows, `ON CONFLICT (member_public_id) DO UPDATE SET
	mvp_point = EXCLUDED.mvp_point,
	striker_point = EXCLUDED.striker_point,
	midfielder_point = EXCLUDED.midfielder_point,
	defender_point = EXCLUDED.defender_point,
	goalkeeper_point = EXCLUDED.goalkeeper_point,
	charm_point = EXCLUDED.charm_point,
	updated_at = NOW()`)
	if err != nil {
		return errors.Wrap(err, "build upsert abilities query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "upsert abilities")
}

func (r abilityRepository) Top(ctx context.Context, category ability.Category, limit int) ([]ability.Ability, error) {
	column, ok := categoryColumns[category]
	if !ok {
		return nil, errors.Newf("unknown ability category %q", category)
	}
	builder := qb.Select(abilityColumns...).From("abilities").
		OrderBy(column+" DESC", "member_public_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build top abilities query")
	}

	var rows []abilityTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list top %s", category)
	}

	out := make([]ability.Ability, 0, len(rows))
	for _, row := range rows {
		out = append(out, ability.Ability(row))
	}
	return out, nil
}

func (r abilityRepository) CountAbove(ctx context.Context, category ability.Category, points int) (int, error) {
	column, ok := categoryColumns[category]
	if !ok {
		return 0, errors.Newf("unknown ability category %q", category)
	}
	query, args, err := qb.Select("COUNT(1)").From("abilities").
		Where(qb.Expr(column+" > ?", points)).
		ToSQL()
	if err != nil {
		return 0, errors.Wrap(err, "build count abilities query")
	}

	var count int
	if _, err := r.get(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrapf(err, "count %s above %d", category, points)
	}
	return count, nil
}
