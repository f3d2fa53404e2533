package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupsync/internal/groups"
	"github.com/mmynk/groupsync/internal/models"
	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/pkg/api"
)

// GroupService implements the Connect GroupService on top of the group
// manager.
type GroupService struct {
	manager *groups.Manager
	logger  *slog.Logger
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService.
func NewGroupService(manager *groups.Manager, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{manager: manager, logger: logger}
}

// Ping reports liveness.
func (s *GroupService) Ping(ctx context.Context, _ *connect.Request[api.PingRequest]) (*connect.Response[api.PingResponse], error) {
	message, err := s.manager.Ping(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.PingResponse{Message: message}), nil
}

// ListGroups retrieves all groups with their users and rooms.
func (s *GroupService) ListGroups(ctx context.Context, _ *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	found, err := s.manager.List(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.ListGroupsResponse{Groups: make([]api.Group, 0, len(found))}
	for _, group := range found {
		resp.Groups = append(resp.Groups, toAPIGroup(group))
	}
	s.logger.Debug("ListGroups successful", "count", len(resp.Groups))
	return connect.NewResponse(resp), nil
}

// CreateGroup creates a new, empty group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	s.logger.Info("CreateGroup request received", "name", req.Msg.Name)

	group, err := s.manager.Create(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// RenameGroup changes a group's name.
func (s *GroupService) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	s.logger.Info("RenameGroup request received", "name", req.Msg.Name, "new_name", req.Msg.NewName)

	if err := s.manager.Rename(ctx, req.Msg.Name, req.Msg.NewName); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RenameGroupResponse{}), nil
}

// DeleteGroup deletes a group and revokes the access only it granted.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	s.logger.Info("DeleteGroup request received", "name", req.Msg.Name)

	outcome, err := s.manager.Delete(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteGroupResponse{Sync: toSyncSummary(outcome.Report)}), nil
}

// AddUser adds a user to a group.
func (s *GroupService) AddUser(ctx context.Context, req *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error) {
	s.logger.Info("AddUser request received", "group", req.Msg.Group, "user", req.Msg.User)

	outcome, err := s.manager.AddUser(ctx, req.Msg.Group, req.Msg.User)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddUserResponse{
		User: outcome.User.String(),
		Sync: toSyncSummary(outcome.Report),
	}), nil
}

// RemoveUser removes a user from a group.
func (s *GroupService) RemoveUser(ctx context.Context, req *connect.Request[api.RemoveUserRequest]) (*connect.Response[api.RemoveUserResponse], error) {
	s.logger.Info("RemoveUser request received", "group", req.Msg.Group, "user", req.Msg.User)

	outcome, err := s.manager.RemoveUser(ctx, req.Msg.Group, req.Msg.User)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveUserResponse{
		User: outcome.User.String(),
		Sync: toSyncSummary(outcome.Report),
	}), nil
}

// AttachRoom attaches a room to a group.
func (s *GroupService) AttachRoom(ctx context.Context, req *connect.Request[api.AttachRoomRequest]) (*connect.Response[api.AttachRoomResponse], error) {
	s.logger.Info("AttachRoom request received", "group", req.Msg.Group, "room", req.Msg.Room)

	outcome, err := s.manager.AttachRoom(ctx, req.Msg.Group, req.Msg.Room)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AttachRoomResponse{
		Room: toAPIRoom(outcome.Room),
		Sync: toSyncSummary(outcome.Report),
	}), nil
}

// DetachRoom detaches a room from a group.
func (s *GroupService) DetachRoom(ctx context.Context, req *connect.Request[api.DetachRoomRequest]) (*connect.Response[api.DetachRoomResponse], error) {
	s.logger.Info("DetachRoom request received", "group", req.Msg.Group, "room", req.Msg.Room)

	outcome, err := s.manager.DetachRoom(ctx, req.Msg.Group, req.Msg.Room)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DetachRoomResponse{
		Room: toAPIRoom(outcome.Room),
		Sync: toSyncSummary(outcome.Report),
	}), nil
}

func toAPIGroup(group *models.Group) api.Group {
	out := api.Group{
		ID:        group.ID,
		Name:      group.Name,
		Users:     make([]string, 0, len(group.Users)),
		Rooms:     make([]api.Room, 0, len(group.Rooms)),
		CreatedAt: group.CreatedAt,
	}
	for _, user := range group.Users {
		out.Users = append(out.Users, user.String())
	}
	for _, room := range group.Rooms {
		out.Rooms = append(out.Rooms, toAPIRoom(room))
	}
	return out
}

func toAPIRoom(room models.Room) api.Room {
	return api.Room{ID: room.ID.String(), Alias: room.Alias.String()}
}

func toSyncSummary(report reconcile.Report) api.SyncSummary {
	return api.SyncSummary{
		Pass:     report.Pass,
		Invited:  report.Invited,
		Revoked:  report.Revoked,
		Skipped:  report.Skipped,
		Retained: report.Retained,

		Unresolved: report.Unresolved,
	}
}
