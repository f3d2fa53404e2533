package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/models"
	"github.com/mmynk/groupsync/internal/storage"
)

// CreateGroup inserts a new group with no edges.
func (t *sqliteTx) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	existing, err := t.FindGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, storage.ErrGroupExists
	}

	group := &models.Group{Name: name, CreatedAt: time.Now().Unix()}
	result, err := t.tx.ExecContext(ctx,
		"INSERT INTO groups (name, created_at) VALUES (?, ?)",
		group.Name, group.CreatedAt,
	)
	if err != nil {
		if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, storage.ErrGroupExists
		}
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	group.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read group ID: %w", err)
	}
	return group, nil
}

// RenameGroup changes a group's name and updates group in place.
func (t *sqliteTx) RenameGroup(ctx context.Context, group *models.Group, newName string) error {
	if newName == group.Name {
		return nil
	}

	result, err := t.tx.ExecContext(ctx,
		"UPDATE groups SET name = ? WHERE id = ?",
		newName, group.ID,
	)
	if err != nil {
		if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return storage.ErrGroupExists
		}
		return fmt.Errorf("failed to rename group: %w", err)
	}
	if err := requireRow(result, storage.ErrGroupNotFound); err != nil {
		return err
	}

	group.Name = newName
	return nil
}

// DeleteGroup removes a group and its edges.
func (t *sqliteTx) DeleteGroup(ctx context.Context, group *models.Group) (models.Delta, error) {
	snapshot, err := t.loadGroup(ctx, group.ID)
	if err != nil {
		return models.Delta{}, fmt.Errorf("failed to load group for deletion: %w", err)
	}
	if snapshot == nil {
		return models.Delta{}, storage.ErrGroupNotFound
	}

	for _, stmt := range []string{
		"DELETE FROM group_users WHERE group_id = ?",
		"DELETE FROM group_rooms WHERE group_id = ?",
		"DELETE FROM groups WHERE id = ?",
	} {
		if _, err := t.tx.ExecContext(ctx, stmt, group.ID); err != nil {
			return models.Delta{}, fmt.Errorf("failed to delete group: %w", err)
		}
	}

	return models.Delta{Kind: models.GroupDeleted, Group: snapshot}, nil
}

// AttachUser inserts a user edge.
func (t *sqliteTx) AttachUser(ctx context.Context, group *models.Group, userID ident.UserID) (models.Delta, error) {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO group_users (group_id, user_id, created_at) VALUES (?, ?, ?)",
		group.ID, userID.String(), time.Now().Unix(),
	)
	if err != nil {
		return models.Delta{}, edgeError(err, storage.ErrUserExists, "failed to insert group user")
	}
	return t.delta(ctx, group, models.Delta{Kind: models.UserAdded, User: userID})
}

// DetachUser deletes a user edge.
func (t *sqliteTx) DetachUser(ctx context.Context, group *models.Group, userID ident.UserID) (models.Delta, error) {
	result, err := t.tx.ExecContext(ctx,
		"DELETE FROM group_users WHERE group_id = ? AND user_id = ?",
		group.ID, userID.String(),
	)
	if err != nil {
		return models.Delta{}, fmt.Errorf("failed to delete group user: %w", err)
	}
	if err := requireRow(result, storage.ErrUserNotFound); err != nil {
		return models.Delta{}, err
	}
	return t.delta(ctx, group, models.Delta{Kind: models.UserRemoved, User: userID})
}

// AttachRoom inserts a room edge.
func (t *sqliteTx) AttachRoom(ctx context.Context, group *models.Group, room models.Room) (models.Delta, error) {
	var alias any
	if !room.Alias.IsZero() {
		alias = room.Alias.String()
	}

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO group_rooms (group_id, room_id, room_alias, created_at) VALUES (?, ?, ?, ?)",
		group.ID, room.ID.String(), alias, time.Now().Unix(),
	)
	if err != nil {
		return models.Delta{}, edgeError(err, storage.ErrRoomExists, "failed to insert group room")
	}
	return t.delta(ctx, group, models.Delta{Kind: models.RoomAdded, Room: room})
}

// DetachRoom deletes a room edge. The delta carries the edge as it was
// stored, alias included.
func (t *sqliteTx) DetachRoom(ctx context.Context, group *models.Group, roomID ident.RoomID) (models.Delta, error) {
	var rawAlias sql.NullString
	err := t.tx.QueryRowContext(ctx,
		"SELECT room_alias FROM group_rooms WHERE group_id = ? AND room_id = ?",
		group.ID, roomID.String(),
	).Scan(&rawAlias)
	if err == sql.ErrNoRows {
		return models.Delta{}, storage.ErrRoomNotFound
	}
	if err != nil {
		return models.Delta{}, fmt.Errorf("failed to get group room: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx,
		"DELETE FROM group_rooms WHERE group_id = ? AND room_id = ?",
		group.ID, roomID.String(),
	); err != nil {
		return models.Delta{}, fmt.Errorf("failed to delete group room: %w", err)
	}

	room := models.Room{ID: roomID}
	if rawAlias.Valid {
		if alias, err := ident.ParseRoomAlias(rawAlias.String); err == nil {
			room.Alias = alias
		}
	}
	return t.delta(ctx, group, models.Delta{Kind: models.RoomRemoved, Room: room})
}

// delta reloads the group after an edge change, refreshes the caller's copy
// and attaches an independent snapshot to the delta.
func (t *sqliteTx) delta(ctx context.Context, group *models.Group, d models.Delta) (models.Delta, error) {
	fresh, err := t.loadGroup(ctx, group.ID)
	if err != nil {
		return models.Delta{}, fmt.Errorf("failed to reload group: %w", err)
	}
	if fresh == nil {
		return models.Delta{}, storage.ErrGroupNotFound
	}
	*group = *fresh
	d.Group = fresh.Clone()
	return d, nil
}

// edgeError maps constraint violations on edge inserts to sentinel errors.
func edgeError(err, exists error, msg string) error {
	switch constraintCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return exists
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return storage.ErrGroupNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// requireRow returns notFound when the statement touched no rows.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
