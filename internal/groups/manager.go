// Package groups implements the operator commands: creating, renaming and
// deleting groups, and attaching users and rooms to them. Each command runs
// as one session followed by at most one reconciliation pass.
package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/membership"
	"github.com/mmynk/groupsync/internal/models"
	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/internal/session"
	"github.com/mmynk/groupsync/internal/storage"
)

// Outcome describes a committed change and the pass it triggered.
type Outcome struct {
	Group  string
	User   ident.UserID
	Room   models.Room
	Report reconcile.Report
}

type groupName struct {
	Name string `validate:"required,max=255"`
}

// Manager executes operator commands.
type Manager struct {
	runner     *session.Runner
	provider   membership.Provider
	homeDomain string
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewManager creates a Manager. homeDomain qualifies bare user and room
// names typed by the operator.
func NewManager(runner *session.Runner, provider membership.Provider, homeDomain string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		runner:     runner,
		provider:   provider,
		homeDomain: homeDomain,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Ping checks that the store answers.
func (m *Manager) Ping(ctx context.Context) (string, error) {
	err := m.runner.View(ctx, "ping", func(context.Context, storage.Tx) error { return nil })
	if err != nil {
		return "", err
	}
	return "pong", nil
}

// List returns every group with its users and rooms, ordered by name.
func (m *Manager) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := m.runner.View(ctx, "list", func(ctx context.Context, tx storage.Tx) error {
		var err error
		groups, err = tx.FindAllGroups(ctx)
		return err
	})
	return groups, err
}

// Create adds an empty group.
func (m *Manager) Create(ctx context.Context, name string) (*models.Group, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}

	var created *models.Group
	_, err := m.runner.Run(ctx, "create", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		existing, err := tx.FindGroupByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, session.Rejectf(session.Conflict, "group %s already exists", name)
		}
		created, err = tx.CreateGroup(ctx, name)
		if errors.Is(err, storage.ErrGroupExists) {
			return nil, session.Rejectf(session.Conflict, "group %s already exists", name)
		}
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("group created", "group", name, "group_id", created.ID)
	return created, nil
}

// Rename changes a group's name. Edges are keyed by user and room, so no
// membership changes follow.
func (m *Manager) Rename(ctx context.Context, name, newName string) error {
	if err := m.checkName(newName); err != nil {
		return err
	}

	_, err := m.runner.Run(ctx, "rename", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := findGroup(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if newName != name {
			taken, err := tx.FindGroupByName(ctx, newName)
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, session.Rejectf(session.Conflict, "group %s already exists", newName)
			}
		}
		err = tx.RenameGroup(ctx, group, newName)
		if errors.Is(err, storage.ErrGroupExists) {
			return nil, session.Rejectf(session.Conflict, "group %s already exists", newName)
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	m.logger.Info("group renamed", "group", name, "new_name", newName)
	return nil
}

// Delete removes a group and revokes the access only it granted.
func (m *Manager) Delete(ctx context.Context, name string) (Outcome, error) {
	outcome := Outcome{Group: name}
	report, err := m.runner.Run(ctx, "delete", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := findGroup(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		delta, err := tx.DeleteGroup(ctx, group)
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
	outcome.Report = report
	return outcome, err
}

// AddUser adds a user to a group and invites them to the group's rooms.
func (m *Manager) AddUser(ctx context.Context, name, user string) (Outcome, error) {
	userID, err := m.parseUser(user)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Group: name, User: userID}
	report, err := m.runner.Run(ctx, "add_user", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := findGroup(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if group.HasUser(userID) {
			return nil, session.Rejectf(session.Conflict, "user %s is already in group %s", userID, name)
		}
		delta, err := tx.AttachUser(ctx, group, userID)
		if errors.Is(err, storage.ErrUserExists) {
			return nil, session.Rejectf(session.Conflict, "user %s is already in group %s", userID, name)
		}
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
	outcome.Report = report
	return outcome, err
}

// RemoveUser removes a user from a group and revokes the rooms no other
// group still grants them.
func (m *Manager) RemoveUser(ctx context.Context, name, user string) (Outcome, error) {
	userID, err := m.parseUser(user)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Group: name, User: userID}
	report, err := m.runner.Run(ctx, "remove_user", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := findGroup(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if !group.HasUser(userID) {
			return nil, session.Rejectf(session.NotFound, "user %s is not in group %s", userID, name)
		}
		delta, err := tx.DetachUser(ctx, group, userID)
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, session.Rejectf(session.NotFound, "user %s is not in group %s", userID, name)
		}
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
	outcome.Report = report
	return outcome, err
}

// AttachRoom attaches a room to a group and invites the group's users.
// The bot joins the room first if it is not already there. Alias lookup
// and the join happen before the write transaction opens.
func (m *Manager) AttachRoom(ctx context.Context, name, room string) (Outcome, error) {
	ref, err := m.parseRoom(room)
	if err != nil {
		return Outcome{}, err
	}

	group, err := m.snapshot(ctx, "attach_room", name)
	if err != nil {
		return Outcome{}, err
	}
	if attached, ok := attachedRoom(group, ref); ok {
		return Outcome{}, session.Rejectf(session.Conflict, "group %s is already in room %s", name, attached.AliasOrID())
	}

	var resolved models.Room
	err = m.runner.Prepare(ctx, "attach_room", func(ctx context.Context) error {
		var err error
		if resolved, err = m.resolve(ctx, ref); err != nil {
			return err
		}
		if group.HasRoom(resolved.ID) {
			return session.Rejectf(session.Conflict, "group %s is already in room %s", name, resolved.AliasOrID())
		}
		return m.ensureJoined(ctx, resolved.ID)
	})
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Group: name, Room: resolved}
	report, err := m.runner.Run(ctx, "attach_room", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := findGroup(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if group.HasRoom(resolved.ID) {
			return nil, session.Rejectf(session.Conflict, "group %s is already in room %s", name, resolved.AliasOrID())
		}
		delta, err := tx.AttachRoom(ctx, group, resolved)
		if errors.Is(err, storage.ErrRoomExists) {
			return nil, session.Rejectf(session.Conflict, "group %s is already in room %s", name, resolved.AliasOrID())
		}
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
	outcome.Report = report
	return outcome, err
}

// DetachRoom detaches a room from a group and revokes the users no other
// group still grants it to. An alias recorded on the edge is used as is;
// only unknown aliases are looked up.
func (m *Manager) DetachRoom(ctx context.Context, name, room string) (Outcome, error) {
	ref, err := m.parseRoom(room)
	if err != nil {
		return Outcome{}, err
	}

	group, err := m.snapshot(ctx, "detach_room", name)
	if err != nil {
		return Outcome{}, err
	}
	target, ok := attachedRoom(group, ref)
	if !ok {
		if !ref.IsAlias() {
			return Outcome{}, session.Rejectf(session.NotFound, "group %s is not in room %s", name, ref)
		}
		err = m.runner.Prepare(ctx, "detach_room", func(ctx context.Context) error {
			resolved, err := m.resolve(ctx, ref)
			if err != nil {
				return err
			}
			if target, ok = group.Room(resolved.ID); !ok {
				return session.Rejectf(session.NotFound, "group %s is not in room %s", name, resolved.AliasOrID())
			}
			return nil
		})
		if err != nil {
			return Outcome{}, err
		}
	}

	outcome := Outcome{Group: name, Room: target}
	report, err := m.runner.Run(ctx, "detach_room", func(ctx context.Context, tx storage.Tx) (*models.Delta, error) {
		group, err := findGroup(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if !group.HasRoom(target.ID) {
			return nil, session.Rejectf(session.NotFound, "group %s is not in room %s", name, target.AliasOrID())
		}
		delta, err := tx.DetachRoom(ctx, group, target.ID)
		if errors.Is(err, storage.ErrRoomNotFound) {
			return nil, session.Rejectf(session.NotFound, "group %s is not in room %s", name, target.AliasOrID())
		}
		if err != nil {
			return nil, err
		}
		outcome.Room = delta.Room
		return &delta, nil
	})
	outcome.Report = report
	return outcome, err
}

// snapshot reads a group outside any write transaction.
func (m *Manager) snapshot(ctx context.Context, op, name string) (*models.Group, error) {
	var group *models.Group
	err := m.runner.View(ctx, op, func(ctx context.Context, tx storage.Tx) error {
		var err error
		group, err = findGroup(ctx, tx, name)
		return err
	})
	return group, err
}

// attachedRoom finds the edge ref names without asking the provider: by ID,
// or by the alias recorded when the room was attached.
func attachedRoom(group *models.Group, ref ident.RoomRef) (models.Room, bool) {
	if !ref.IsAlias() {
		return group.Room(ref.ID)
	}
	return lo.Find(group.Rooms, func(r models.Room) bool { return r.Alias == ref.Alias })
}

func (m *Manager) checkName(name string) error {
	if err := m.validate.Struct(groupName{Name: name}); err != nil {
		return session.Rejectf(session.Invalid, "invalid group name %q: must be 1 to 255 characters", name)
	}
	return nil
}

func (m *Manager) parseUser(input string) (ident.UserID, error) {
	userID := ident.NormalizeUserID(input, m.homeDomain)
	if err := userID.Validate(); err != nil {
		return ident.UserID{}, session.Rejectf(session.Invalid, "invalid user %q", input)
	}
	return userID, nil
}

func (m *Manager) parseRoom(input string) (ident.RoomRef, error) {
	ref := ident.NormalizeRoom(input, m.homeDomain)
	if err := ref.Validate(); err != nil {
		return ident.RoomRef{}, session.Rejectf(session.Invalid, "invalid room %q", input)
	}
	return ref, nil
}

// resolve turns a room reference into a room edge. Aliases are looked up in
// the homeserver directory and kept on the edge for display.
func (m *Manager) resolve(ctx context.Context, ref ident.RoomRef) (models.Room, error) {
	if !ref.IsAlias() {
		return models.Room{ID: ref.ID}, nil
	}
	roomID, err := m.provider.ResolveAlias(ctx, ref.Alias)
	if errors.Is(err, membership.ErrAliasNotFound) {
		return models.Room{}, session.Rejectf(session.NotFound, "room alias %s not found", ref.Alias)
	}
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to resolve alias %s: %w", ref.Alias, err)
	}
	return models.Room{ID: roomID, Alias: ref.Alias}, nil
}

func (m *Manager) ensureJoined(ctx context.Context, roomID ident.RoomID) error {
	joined, err := m.provider.JoinedRooms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list joined rooms: %w", err)
	}
	if lo.Contains(joined, roomID) {
		return nil
	}
	if err := m.provider.JoinRoom(ctx, roomID); err != nil {
		return fmt.Errorf("failed to join room %s: %w", roomID, err)
	}
	m.logger.Info("joined room", "room_id", roomID)
	return nil
}

func findGroup(ctx context.Context, tx storage.Tx, name string) (*models.Group, error) {
	group, err := tx.FindGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, session.Rejectf(session.NotFound, "group %s does not exist", name)
	}
	return group, nil
}
