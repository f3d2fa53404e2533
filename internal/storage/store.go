// Package storage provides abstractions for persistent group storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/models"
)

var (
	ErrGroupExists   = errors.New("group already exists")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserExists    = errors.New("user already in group")
	ErrUserNotFound  = errors.New("user not in group")
	ErrRoomExists    = errors.New("room already attached to group")
	ErrRoomNotFound  = errors.New("room not attached to group")
	ErrTxDone        = errors.New("transaction already committed or rolled back")
)

// Store is the durable home of groups and their user and room edges.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the session or reconciliation layers.
type Store interface {
	// Begin opens a write transaction. Every read and write goes through one.
	// Write transactions are serialized against each other.
	Begin(ctx context.Context) (Tx, error)

	// BeginRead opens a transaction for reads only. It does not wait for or
	// block concurrent writers and sees the state committed when it starts.
	// Callers must roll it back.
	BeginRead(ctx context.Context) (Tx, error)

	// Close releases any resources held by the store.
	Close() error
}

// Tx is one unit of work against the store. Mutations are not durable until
// Commit. Reads observe the transaction's own uncommitted writes.
//
// Exactly one of Commit or Rollback ends a transaction. Rollback after Commit
// is a no-op, so callers may always defer Rollback.
type Tx interface {
	// CreateGroup inserts a group. Returns ErrGroupExists on a name collision.
	CreateGroup(ctx context.Context, name string) (*models.Group, error)

	// RenameGroup changes the group's name. Returns ErrGroupExists if
	// another group already has newName.
	RenameGroup(ctx context.Context, group *models.Group, newName string) error

	// DeleteGroup removes the group and all of its edges. The returned delta
	// holds the group as it was before deletion.
	DeleteGroup(ctx context.Context, group *models.Group) (models.Delta, error)

	// FindGroupByName does an exact, case-sensitive lookup.
	// Returns nil and no error when there is no such group.
	FindGroupByName(ctx context.Context, name string) (*models.Group, error)

	// FindAllGroups returns every group, ordered by name.
	FindAllGroups(ctx context.Context) ([]*models.Group, error)

	// FindGroupsByRoom returns every group the room is attached to.
	FindGroupsByRoom(ctx context.Context, roomID ident.RoomID) ([]*models.Group, error)

	// FindGroupsByUser returns every group the user belongs to.
	FindGroupsByUser(ctx context.Context, userID ident.UserID) ([]*models.Group, error)

	// AttachUser adds a user edge. Returns ErrUserExists if present.
	AttachUser(ctx context.Context, group *models.Group, userID ident.UserID) (models.Delta, error)

	// DetachUser removes a user edge. Returns ErrUserNotFound if absent.
	DetachUser(ctx context.Context, group *models.Group, userID ident.UserID) (models.Delta, error)

	// AttachRoom adds a room edge. Returns ErrRoomExists if present.
	AttachRoom(ctx context.Context, group *models.Group, room models.Room) (models.Delta, error)

	// DetachRoom removes a room edge. Returns ErrRoomNotFound if absent.
	DetachRoom(ctx context.Context, group *models.Group, roomID ident.RoomID) (models.Delta, error)

	Commit() error
	Rollback() error
}
