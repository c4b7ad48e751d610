package postgres

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
)

const uniqueViolation = pq.ErrorCode("23505")

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// writeError marks unique violations with uow.ErrDuplicate.
func writeError(err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrapf(err, msg, args...)
	if isUniqueViolation(err) {
		return errors.Mark(wrapped, uow.ErrDuplicate)
	}
	return wrapped
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullTime(v time.Time) *time.Time {
	if v.IsZero() {
		return nil
	}
	t := v.UTC()
	return &t
}

func timeOrZero(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.UTC()
}
