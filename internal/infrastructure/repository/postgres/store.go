package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
)

// Store runs units of work inside database transactions.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Update runs work in a read-write transaction. Proposal, match, result,
// record and ability rows read inside it are locked with FOR UPDATE.
func (s *Store) Update(ctx context.Context, work uow.Work) error {
	return s.run(ctx, work, false)
}

func (s *Store) View(ctx context.Context, work uow.Work) error {
	return s.run(ctx, work, true)
}

func (s *Store) run(ctx context.Context, work uow.Work, readOnly bool) (err error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := work(ctx, repositories(tx, !readOnly)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.CombineErrors(err, errors.Wrap(rbErr, "rollback transaction"))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// conn is one transaction shared by the repositories of a unit of work.
type conn struct {
	q    sqlx.ExtContext
	lock bool
}

func repositories(q sqlx.ExtContext, lock bool) uow.Repositories {
	c := conn{q: q, lock: lock}
	return uow.Repositories{
		Teams:          teamRepository{c},
		Members:        memberRepository{c},
		Participations: participationRepository{c},
		Proposals:      proposalRepository{c},
		Matches:        matchRepository{c},
		Lineups:        lineupRepository{c},
		Results:        resultRepository{c},
		Histories:      historyRepository{c},
		Abilities:      abilityRepository{c},
	}
}

func (c conn) get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	if err := sqlx.GetContext(ctx, c.q, dest, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c conn) selectRows(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, c.q, dest, query, args...)
}

func (c conn) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
