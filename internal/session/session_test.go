package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/models"
	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/internal/storage"
	"github.com/mmynk/groupsync/internal/storage/sqlite"
)

var alice = ident.MustUserID("@alice:example.org")

type recordingReconciler struct {
	deltas []models.Delta
	report reconcile.Report
}

func (r *recordingReconciler) Apply(_ context.Context, delta models.Delta) reconcile.Report {
	r.deltas = append(r.deltas, delta)
	return r.report
}

// failingCommitStore hands out transactions whose Commit always fails.
type failingCommitStore struct {
	storage.Store
}

type failingCommitTx struct {
	storage.Tx
}

func (s failingCommitStore) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return failingCommitTx{tx}, nil
}

func (failingCommitTx) Commit() error { return errors.New("disk full") }

func newStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func countGroups(t *testing.T, store storage.Store) int {
	t.Helper()
	ctx := context.Background()
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	groups, err := tx.FindAllGroups(ctx)
	require.NoError(t, err)
	return len(groups)
}

func createWithUser(name string) Body {
	return func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := tx.CreateGroup(ctx, name)
		if err != nil {
			return nil, err
		}
		delta, err := tx.AttachUser(ctx, group, alice)
		if err != nil {
			return nil, err
		}
		return &delta, nil
	}
}

func TestRun_CommitsThenReconcilesOnce(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	reconciler := &recordingReconciler{report: reconcile.Report{Invited: 1}}
	runner := NewRunner(store, reconciler, nil)

	report, err := runner.Run(context.Background(), "add", createWithUser("eng"))
	req.NoError(err)
	req.Equal(1, report.Invited)
	req.Len(reconciler.deltas, 1)
	req.Equal(models.UserAdded, reconciler.deltas[0].Kind)
	req.Equal(alice, reconciler.deltas[0].User)
	req.Equal(1, countGroups(t, store))
}

func TestRun_NilDeltaSkipsReconciliation(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	reconciler := &recordingReconciler{}
	runner := NewRunner(store, reconciler, nil)

	_, err := runner.Run(context.Background(), "create", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		_, err := tx.CreateGroup(ctx, "eng")
		return nil, err
	})
	req.NoError(err)
	req.Empty(reconciler.deltas)
	req.Equal(1, countGroups(t, store))
}

func TestRun_ValidationRollsBack(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	reconciler := &recordingReconciler{}
	runner := NewRunner(store, reconciler, nil)

	_, err := runner.Run(context.Background(), "create", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		if _, err := tx.CreateGroup(ctx, "eng"); err != nil {
			return nil, err
		}
		return nil, Rejectf(Conflict, "group %s already exists", "eng")
	})

	var validationErr *ValidationError
	req.ErrorAs(err, &validationErr)
	req.Equal(Conflict, validationErr.Reason)
	req.Equal("group eng already exists", err.Error())
	req.True(IsValidation(err))
	req.Empty(reconciler.deltas)
	req.Zero(countGroups(t, store))
}

func TestRun_UnexpectedErrorIsHidden(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	reconciler := &recordingReconciler{}
	runner := NewRunner(store, reconciler, nil)

	_, err := runner.Run(context.Background(), "add", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		if _, err := tx.CreateGroup(ctx, "eng"); err != nil {
			return nil, err
		}
		return nil, errors.New("constraint failed: secret detail")
	})
	req.ErrorIs(err, ErrUnexpected)
	req.NotContains(err.Error(), "secret detail")
	req.False(IsValidation(err))
	req.Empty(reconciler.deltas)
	req.Zero(countGroups(t, store))
}

func TestRun_PanicRollsBack(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	runner := NewRunner(store, &recordingReconciler{}, nil)

	_, err := runner.Run(context.Background(), "add", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		if _, err := tx.CreateGroup(ctx, "eng"); err != nil {
			return nil, err
		}
		panic("boom")
	})
	req.ErrorIs(err, ErrUnexpected)
	req.Zero(countGroups(t, store))

	// The store is still usable after the panic released its transaction.
	_, err = runner.Run(context.Background(), "create", createWithUser("ops"))
	req.NoError(err)
}

func TestRun_CommitFailureIsUnexpected(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	reconciler := &recordingReconciler{}
	runner := NewRunner(failingCommitStore{store}, reconciler, nil)

	_, err := runner.Run(context.Background(), "add", createWithUser("eng"))
	req.ErrorIs(err, ErrUnexpected)
	req.Empty(reconciler.deltas)
	req.Zero(countGroups(t, store))
}

func TestRun_ProviderFailureAfterCommit(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	reconciler := &recordingReconciler{report: reconcile.Report{
		Group:    "eng",
		Failures: []reconcile.Failure{{Err: errors.New("unreachable")}},
	}}
	runner := NewRunner(store, reconciler, nil)

	report, err := runner.Run(context.Background(), "add", createWithUser("eng"))

	var providerErr *reconcile.ProviderError
	req.ErrorAs(err, &providerErr)
	req.Len(report.Failures, 1)
	req.Equal(1, countGroups(t, store), "group change must stay committed")
}

func TestView_AlwaysRollsBack(t *testing.T) {
	req := require.New(t)
	store := newStore(t)
	runner := NewRunner(store, &recordingReconciler{}, nil)

	err := runner.View(context.Background(), "list", func(ctx context.Context, tx storage.Tx) error {
		_, err := tx.CreateGroup(ctx, "scratch")
		return err
	})
	req.NoError(err)
	req.Zero(countGroups(t, store))
}

func TestPrepare(t *testing.T) {
	runner := NewRunner(newStore(t), &recordingReconciler{}, nil)
	ctx := context.Background()

	t.Run("validation passes through", func(t *testing.T) {
		err := runner.Prepare(ctx, "attach", func(context.Context) error {
			return Rejectf(NotFound, "room alias #dev:example.org not found")
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, NotFound, validationErr.Reason)
	})

	t.Run("other errors are hidden", func(t *testing.T) {
		err := runner.Prepare(ctx, "attach", func(context.Context) error {
			return errors.New("connection refused")
		})
		require.ErrorIs(t, err, ErrUnexpected)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		err := runner.Prepare(ctx, "attach", func(context.Context) error {
			panic("boom")
		})
		require.ErrorIs(t, err, ErrUnexpected)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, runner.Prepare(ctx, "attach", func(context.Context) error { return nil }))
	})
}
