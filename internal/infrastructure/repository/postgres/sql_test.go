package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	t.Run("marks unique violations", func(t *testing.T) {
		err := writeError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}, "insert team %s", "t1")
		assert.True(t, errors.Is(err, uow.ErrDuplicate))
		assert.Contains(t, err.Error(), "insert team t1")
	})

	t.Run("keeps other errors unmarked", func(t *testing.T) {
		err := writeError(&pq.Error{Code: "23503"}, "insert team")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, uow.ErrDuplicate))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, writeError(nil, "noop"))
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(errors.Wrap(sql.ErrNoRows, "get team")))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestNullHelpers(t *testing.T) {
	assert.Equal(t, sql.NullString{}, nullString(""))
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, nullString("x"))

	assert.Nil(t, nullTime(time.Time{}))
	jakarta := time.FixedZone("WIB", 7*3600)
	local := time.Date(2026, 3, 7, 16, 0, 0, 0, jakarta)
	got := nullTime(local)
	if assert.NotNil(t, got) {
		assert.Equal(t, time.UTC, got.Location())
		assert.True(t, got.Equal(local))
	}
	assert.True(t, timeOrZero(nil).IsZero())
}
