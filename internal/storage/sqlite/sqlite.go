// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/groupsync/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// Write transactions are opened with BEGIN IMMEDIATE, so SQLite serializes
// conflicting sessions at Begin instead of failing them at commit. Read
// transactions come from a second pool opened with BEGIN DEFERRED; under
// WAL they never wait for a writer.
type SQLiteStore struct {
	db     *sql.DB
	readDB *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath, "immediate"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	readDB, err := sql.Open("sqlite", dsn(dbPath, "deferred"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database for reading: %w", err)
	}

	return &SQLiteStore{db: db, readDB: readDB}, nil
}

// dsn builds a connection string that applies the pragmas to every pooled
// connection, not just the first one.
func dsn(dbPath, txlock string) string {
	query := url.Values{}
	query.Add("_pragma", "foreign_keys(1)")
	query.Add("_pragma", "busy_timeout(5000)")
	query.Add("_pragma", "journal_mode(WAL)")
	query.Set("_txlock", txlock)
	return dbPath + "?" + query.Encode()
}

// Close closes both connection pools.
func (s *SQLiteStore) Close() error {
	return errors.Join(s.readDB.Close(), s.db.Close())
}

// Begin opens a write transaction.
func (s *SQLiteStore) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

// BeginRead opens a deferred transaction on the read pool.
func (s *SQLiteStore) BeginRead(ctx context.Context) (storage.Tx, error) {
	tx, err := s.readDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

// sqliteTx implements storage.Tx on a *sql.Tx.
type sqliteTx struct {
	tx   *sql.Tx
	done bool
}

func (t *sqliteTx) Commit() error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// constraintCode returns the extended SQLite result code when err is a
// constraint violation, or 0.
func constraintCode(err error) int {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0
	}
	switch code := sqliteErr.Code(); code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return code
	}
	return 0
}
