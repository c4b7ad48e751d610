package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo roster into an empty database.
func BootstrapSeed(ctx context.Context, store *Store, now time.Time) error {
	var count int
	if err := store.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM members`); err != nil {
		return errors.Wrap(err, "count members for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	if err := memory.SeedDemo(ctx, store, now); err != nil {
		return errors.Wrap(err, "bootstrap seed")
	}
	return nil
}
