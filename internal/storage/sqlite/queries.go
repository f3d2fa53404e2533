package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/models"
)

// FindGroupByName retrieves a group by exact name, with its edges.
func (t *sqliteTx) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	groups, err := t.loadGroups(ctx, "WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("failed to get group by name: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil // Group not found
	}
	return groups[0], nil
}

// FindAllGroups retrieves every group, ordered by name.
func (t *sqliteTx) FindAllGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := t.loadGroups(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// FindGroupsByRoom retrieves every group the room is attached to.
func (t *sqliteTx) FindGroupsByRoom(ctx context.Context, roomID ident.RoomID) ([]*models.Group, error) {
	groups, err := t.loadGroups(ctx,
		"WHERE id IN (SELECT group_id FROM group_rooms WHERE room_id = ?)", roomID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get groups by room: %w", err)
	}
	return groups, nil
}

// FindGroupsByUser retrieves every group the user belongs to.
func (t *sqliteTx) FindGroupsByUser(ctx context.Context, userID ident.UserID) ([]*models.Group, error) {
	groups, err := t.loadGroups(ctx,
		"WHERE id IN (SELECT group_id FROM group_users WHERE user_id = ?)", userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get groups by user: %w", err)
	}
	return groups, nil
}

// loadGroup reloads one group by ID. Returns nil when it does not exist.
func (t *sqliteTx) loadGroup(ctx context.Context, id int64) (*models.Group, error) {
	groups, err := t.loadGroups(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return groups[0], nil
}

// loadGroups selects groups matching where and fills in their edges.
// Each result set is drained before the next query runs on the transaction.
func (t *sqliteTx) loadGroups(ctx context.Context, where string, args ...any) ([]*models.Group, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT id, name, created_at FROM groups "+where+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}

	var groups []*models.Group
	byID := make(map[int64]*models.Group)
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
		byID[group.ID] = group
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	ids := make([]any, len(groups))
	for i, group := range groups {
		ids[i] = group.ID
	}

	if err := t.loadUsers(ctx, byID, ids); err != nil {
		return nil, err
	}
	if err := t.loadRooms(ctx, byID, ids); err != nil {
		return nil, err
	}
	return groups, nil
}

func (t *sqliteTx) loadUsers(ctx context.Context, byID map[int64]*models.Group, ids []any) error {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT group_id, user_id FROM group_users WHERE group_id IN ("+placeholders(len(ids))+") ORDER BY user_id",
		ids...,
	)
	if err != nil {
		return fmt.Errorf("failed to get group users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID int64
		var raw string
		if err := rows.Scan(&groupID, &raw); err != nil {
			return fmt.Errorf("failed to scan group user: %w", err)
		}
		userID, err := ident.ParseUserID(raw)
		if err != nil {
			return fmt.Errorf("corrupt user edge in group %d: %w", groupID, err)
		}
		group := byID[groupID]
		group.Users = append(group.Users, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group users: %w", err)
	}
	return nil
}

func (t *sqliteTx) loadRooms(ctx context.Context, byID map[int64]*models.Group, ids []any) error {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT group_id, room_id, room_alias FROM group_rooms WHERE group_id IN ("+placeholders(len(ids))+") ORDER BY room_id",
		ids...,
	)
	if err != nil {
		return fmt.Errorf("failed to get group rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID int64
		var rawID string
		var rawAlias sql.NullString
		if err := rows.Scan(&groupID, &rawID, &rawAlias); err != nil {
			return fmt.Errorf("failed to scan group room: %w", err)
		}
		roomID, err := ident.ParseRoomID(rawID)
		if err != nil {
			return fmt.Errorf("corrupt room edge in group %d: %w", groupID, err)
		}
		room := models.Room{ID: roomID}
		if rawAlias.Valid && rawAlias.String != "" {
			alias, err := ident.ParseRoomAlias(rawAlias.String)
			if err != nil {
				return fmt.Errorf("corrupt room alias in group %d: %w", groupID, err)
			}
			room.Alias = alias
		}
		group := byID[groupID]
		group.Rooms = append(group.Rooms, room)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group rooms: %w", err)
	}
	return nil
}

// placeholders returns "?, ?, ..." with n placeholders for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
