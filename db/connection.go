package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jpillora/backoff"
	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"supportbot/core/log"
)

// NewConnection opens the pool and pings it, retrying with exponential backoff while the
// database comes up. attempts <= 0 means a single attempt.
func NewConnection(ctx context.Context, databaseURL string, attempts int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	b := &backoff.Backoff{Min: 500 * time.Millisecond, Max: 10 * time.Second, Factor: 2, Jitter: true}
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= attempts {
			break
		}

		wait := b.Duration()
		log.Warn("⚠️ Database not reachable yet, retrying", "attempt", attempt, "wait", wait.String(), "error", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}
