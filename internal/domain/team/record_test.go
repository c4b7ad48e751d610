package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordApply_FractionalWinRate(t *testing.T) {
	rec := Record{TeamID: "t1"}
	rec = rec.Apply(RecordDelta{Games: 1, Wins: 1})
	rec = rec.Apply(RecordDelta{Games: 1, Loses: 1})
	rec = rec.Apply(RecordDelta{Games: 1, Draws: 1})

	assert.Equal(t, 3, rec.TotalGameCount)
	assert.Equal(t, 1, rec.WinCount)
	assert.Equal(t, 1, rec.DrawCount)
	assert.Equal(t, 1, rec.LoseCount)
	assert.InDelta(t, 1.0/3.0, rec.WinRate, 1e-9)
}

func TestRecordApply_ZeroGames(t *testing.T) {
	rec := Record{TeamID: "t1"}.Apply(RecordDelta{})
	assert.Zero(t, rec.WinRate)
}

func TestTeamValidate(t *testing.T) {
	valid := Team{ID: "t1", Name: "Sunday Strikers", LeaderID: "m1"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Team{ID: "t1", Name: "  ", LeaderID: "m1"}.Validate())
	assert.Error(t, Team{ID: "t1", Name: "x", LeaderID: ""}.Validate())
	assert.Error(t, Team{ID: "t1", Name: "abcdefghijklmnopqrstuvwxyz012345", LeaderID: "m1"}.Validate())
}
