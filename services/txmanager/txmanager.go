package txmanager

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jpillora/backoff"

	"supportbot/core/log"
	"supportbot/db"
	dbtx "supportbot/db/tx"
)

const defaultMaxAttempts = 3

// TransactionManager implements services.TransactionManager on top of sqlx. A transaction that
// fails with a serialization failure or deadlock is run again from the start.
type TransactionManager struct {
	db          *sqlx.DB
	maxAttempts int
	newBackoff  func() *backoff.Backoff
}

func NewTransactionManager(db *sqlx.DB) *TransactionManager {
	return &TransactionManager{
		db:          db,
		maxAttempts: defaultMaxAttempts,
		newBackoff: func() *backoff.Backoff {
			return &backoff.Backoff{Min: 20 * time.Millisecond, Max: 500 * time.Millisecond, Factor: 2, Jitter: true}
		},
	}
}

// WithTransaction runs fn inside a transaction. A call made while ctx already carries a
// transaction joins it, and retries are left to the outermost call. A panic in fn rolls back
// and re-panics.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, inTx := dbtx.TransactionFromContext(ctx); inTx {
		return fn(ctx)
	}

	b := tm.newBackoff()
	for attempt := 1; ; attempt++ {
		err := tm.runOnce(ctx, fn)
		if err == nil || !db.IsRetryableTxError(err) || attempt >= tm.maxAttempts {
			return err
		}

		wait := b.Duration()
		log.Warn("⚠️ Transaction conflicted with a concurrent one, retrying",
			"attempt", attempt, "wait", wait.String(), "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction retry cancelled: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (tm *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("❌ Transaction panicked, rolling back", "panic", fmt.Sprint(r))
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error("❌ Failed to rollback after panic", "error", rollbackErr)
			}
			panic(r)
		}
	}()

	if err := fn(dbtx.WithTransaction(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("❌ Failed to rollback transaction", "error", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
