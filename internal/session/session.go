// Package session runs group mutations as one transaction followed, after
// commit, by exactly one reconciliation pass.
package session

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/mmynk/groupsync/internal/models"
	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/internal/storage"
)

// Reconciler applies a committed delta to the membership provider.
type Reconciler interface {
	Apply(ctx context.Context, delta models.Delta) reconcile.Report
}

// Body is the work done inside a transaction. A nil delta means nothing
// membership-affecting changed.
type Body func(ctx context.Context, tx storage.Tx) (*models.Delta, error)

// Runner wraps Bodies in transactions.
type Runner struct {
	store      storage.Store
	reconciler Reconciler
	logger     *slog.Logger
}

func NewRunner(store storage.Store, reconciler Reconciler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, reconciler: reconciler, logger: logger}
}

// Run executes body in a new transaction.
//
// A *ValidationError from body rolls back and is returned unchanged. Any
// other failure, including a panic or a failed commit, rolls back, is
// logged and surfaces as ErrUnexpected. After a successful commit the
// delta is reconciled; addition failures come back as a
// *reconcile.ProviderError while the change stays committed.
func (r *Runner) Run(ctx context.Context, op string, body Body) (reconcile.Report, error) {
	delta, err := r.transact(ctx, op, body, true)
	if err != nil || delta == nil {
		return reconcile.Report{}, err
	}

	report := r.reconciler.Apply(ctx, *delta)
	return report, report.Err()
}

// View executes fn in a read transaction that is always rolled back. It does
// not wait for sessions that are writing.
func (r *Runner) View(ctx context.Context, op string, fn func(ctx context.Context, tx storage.Tx) error) error {
	_, err := r.transact(ctx, op, func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		return nil, fn(ctx, tx)
	}, false)
	return err
}

// Prepare runs provider work that has to happen before a session opens its
// transaction, such as resolving an alias. No store lock is held while fn
// runs. Errors and panics are handled as in Run.
func (r *Runner) Prepare(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	logger := r.logger.With("op", op)
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic in prepare", "panic", p, "stack", string(debug.Stack()))
			err = ErrUnexpected
		}
	}()

	if err := fn(ctx); err != nil {
		return screen(logger, "prepare failed", err)
	}
	return nil
}

func (r *Runner) transact(ctx context.Context, op string, body Body, commit bool) (delta *models.Delta, err error) {
	logger := r.logger.With("op", op)

	begin := r.store.Begin
	if !commit {
		begin = r.store.BeginRead
	}
	tx, err := begin(ctx)
	if err != nil {
		logger.Error("failed to begin transaction", "error", err)
		return nil, ErrUnexpected
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic in transaction", "panic", p, "stack", string(debug.Stack()))
			delta, err = nil, ErrUnexpected
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, storage.ErrTxDone) {
			logger.Warn("failed to roll back transaction", "error", rbErr)
		}
	}()

	delta, err = body(ctx, tx)
	if err != nil {
		return nil, screen(logger, "transaction failed", err)
	}
	if !commit {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", "error", err)
		return nil, ErrUnexpected
	}
	return delta, nil
}

// screen passes validation errors through and replaces anything else with
// ErrUnexpected after logging it.
func screen(logger *slog.Logger, msg string, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		logger.Debug("rejected", "reason", validationErr.Reason.String(), "message", validationErr.Message)
		return validationErr
	}
	logger.Error(msg, "error", err)
	return ErrUnexpected
}
