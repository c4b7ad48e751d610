package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder_LocksAndOr(t *testing.T) {
	query, args, err := Select("*").
		From("scheduled_matches").
		Where(Or(Eq("home_team_id", "t1"), Eq("away_team_id", "t1"))).
		OrderBy("match_date ASC").
		Limit(5).
		ForUpdate(true).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM scheduled_matches WHERE (home_team_id = $1 OR away_team_id = $2) ORDER BY match_date ASC LIMIT 5 FOR UPDATE", query)
	assert.Equal(t, []any{"t1", "t1"}, args)
}

func TestSelectBuilder_ExprAndNull(t *testing.T) {
	query, args, err := Select("id").
		From("teams").
		Where(Expr("LOWER(name) = LOWER(?)", "Reds"), IsNull("deleted_at"), IsNotNull("leader_id")).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM teams WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL AND leader_id IS NOT NULL", query)
	assert.Equal(t, []any{"Reds"}, args)
}

func TestSelectBuilder_EmptyIn(t *testing.T) {
	query, args, err := Select("id").From("members").Where(InStrings("id", nil)).ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM members WHERE 1=0", query)
	assert.Empty(t, args)
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("match_results").
		Set("score", 3).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "r1")).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE match_results SET score = $1, updated_at = NOW() WHERE id = $2", query)
	assert.Equal(t, []any{3, "r1"}, args)
}

func TestUpdateAndDelete_RequireWhere(t *testing.T) {
	_, _, err := Update("teams").Set("name", "x").ToSQL()
	require.Error(t, err)

	_, _, err = DeleteFrom("proposals").ToSQL()
	require.Error(t, err)
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("lineup_entries").
		Where(Eq("match_id", "m1"), Eq("team_id", "t1"), Eq("slot", "field")).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM lineup_entries WHERE match_id = $1 AND team_id = $2 AND slot = $3", query)
	assert.Equal(t, []any{"m1", "t1", "field"}, args)
}

type historyRow struct {
	ID       string `db:"id"`
	MatchID  string `db:"match_id"`
	internal string
	Ignored  string `db:"-"`
}

func TestInsertModels(t *testing.T) {
	rows := []historyRow{{ID: "h1", MatchID: "m1", internal: "x"}, {ID: "h2", MatchID: "m2"}}
	query, args, err := InsertModels("histories", rows, "ON CONFLICT DO NOTHING")
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO histories (id, match_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING", query)
	assert.Equal(t, []any{"h1", "m1", "h2", "m2"}, args)
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	_, _, err := InsertModel("histories", 42, "")
	require.Error(t, err)
}
