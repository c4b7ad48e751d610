package usecase

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: errors.Wrap(ErrInvalidInput, "score must be positive"), want: KindValidation},
		{name: "not found", err: errors.Wrapf(ErrNotFound, "team %s", "t-1"), want: KindNotFound},
		{name: "forbidden", err: errors.Wrap(ErrForbidden, "not the leader"), want: KindAuthorization},
		{name: "precondition", err: errors.Wrap(ErrPrecondition, "already confirmed"), want: KindPrecondition},
		{name: "conflict", err: errors.Wrap(ErrConflict, "already approved"), want: KindConflict},
		{name: "duplicate row", err: errors.Mark(errors.New("pq: duplicate key"), uow.ErrDuplicate), want: KindConflict},
		{name: "unauthorized", err: errors.Wrap(ErrUnauthorized, "token expired"), want: KindUnauthorized},
		{name: "unavailable", err: errors.Mark(errors.New("dial tcp"), ErrDependencyUnavailable), want: KindUnavailable},
		{name: "unclassified", err: errors.New("disk full"), want: KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}
