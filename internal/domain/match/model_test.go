package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduled_DaysUntil(t *testing.T) {
	m := Scheduled{MatchDate: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}

	assert.Equal(t, 3, m.DaysUntil(time.Date(2026, 5, 7, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 0, m.DaysUntil(time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, -2, m.DaysUntil(time.Date(2026, 5, 12, 1, 0, 0, 0, time.UTC)))
}

func TestScheduled_OpponentOf(t *testing.T) {
	m := Scheduled{HomeTeamID: "home", AwayTeamID: "away"}

	assert.Equal(t, "away", m.OpponentOf("home"))
	assert.Equal(t, "home", m.OpponentOf("away"))
	assert.Empty(t, m.OpponentOf("other"))
	assert.True(t, m.Involves("home"))
	assert.False(t, m.Involves(""))
}
