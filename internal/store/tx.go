package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// RetryPolicy bounds the automatic retry loop for transactions that
// fail on transient lock contention.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// BackoffBase is the sleep before the second attempt; each further
	// attempt doubles it. A small random jitter is added to avoid
	// retry lockstep between contending writers.
	BackoffBase time.Duration
}

// DefaultRetryPolicy matches the busy_timeout pragma's order of
// magnitude: 5 attempts, 10ms/20ms/40ms/80ms backoff.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BackoffBase: 10 * time.Millisecond,
}

// RunInTx executes fn inside a transaction, committing if fn returns
// nil and rolling back otherwise.
//
// The whole transaction (begin, fn, commit) is retried under the
// policy when it fails with SQLITE_BUSY or SQLITE_LOCKED. Errors
// returned by fn itself are never retried - business-rule rejections
// must surface immediately - so fn should translate any retryable
// storage failure it hits into the error it got (wrapped, not
// replaced), keeping the sqlite error code visible to this loop.
//
// A cancelled context aborts the transaction cleanly; no partial
// writes survive.
func (s *Store) RunInTx(ctx context.Context, policy RetryPolicy, fn func(tx *sql.Tx) error) error {
	if policy.MaxAttempts < 1 {
		policy = DefaultRetryPolicy
	}

	var err error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if werr := sleepBackoff(ctx, policy.BackoffBase, attempt); werr != nil {
				return werr
			}
		}

		err = s.attemptTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !IsBusy(err) {
			return err
		}
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", policy.MaxAttempts, err)
}

// attemptTx runs a single begin/fn/commit cycle.
func (s *Store) attemptTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// IsBusy reports whether err is SQLite lock contention
// (SQLITE_BUSY or SQLITE_LOCKED), the only class worth retrying.
func IsBusy(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}

// sleepBackoff waits base << (attempt-1) plus up to 50% jitter,
// honoring context cancellation.
func sleepBackoff(ctx context.Context, base time.Duration, attempt int) error {
	if base <= 0 {
		base = DefaultRetryPolicy.BackoffBase
	}
	d := base << (attempt - 1)
	d += time.Duration(rand.Int63n(int64(d)/2 + 1))

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
