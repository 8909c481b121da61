// Package engine implements the transactional kanban operations:
// board lifecycle, task workflow, capacity enforcement, and position
// allocation. Every public operation runs inside a single transaction
// and either commits as a unit or leaves the store untouched.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/corkboard/internal/store"
)

// Engine exposes the kanban operation set over a backing store.
//
// The engine holds no mutable state between calls; the store is the
// single source of truth. It is safe for concurrent use - contention
// is resolved at the storage boundary by serialized transactions plus
// the bounded retry loop in store.RunInTx.
type Engine struct {
	store *store.Store
	log   *slog.Logger
	retry store.RetryPolicy
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards records;
// the embedding application decides where logs go.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithRetryPolicy overrides the contention retry policy for mutating
// operations.
func WithRetryPolicy(p store.RetryPolicy) Option {
	return func(e *Engine) {
		e.retry = p
	}
}

// WithClock overrides the timestamp source. Used by tests that need
// deterministic created_at/updated_at values.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides entity id generation. Used by tests that
// need deterministic ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// New creates an Engine over the given store.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		retry: store.DefaultRetryPolicy,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// inTx runs fn in a retryable transaction and maps exhausted-retry and
// other storage failures to typed storage errors. Typed engine errors
// returned by fn pass through unchanged and are never retried.
func (e *Engine) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	err := e.store.RunInTx(ctx, e.retry, fn)
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return NewStorageError(op, err)
}
