package api

import (
	"context"
	"errors"

	"connectrpc.com/connect"
)

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.AuthService.Login is not implemented"))
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) Ping(context.Context, *connect.Request[PingRequest]) (*connect.Response[PingResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.Ping is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.ListGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) RenameGroup(context.Context, *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.RenameGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.DeleteGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) AddUser(context.Context, *connect.Request[AddUserRequest]) (*connect.Response[AddUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.AddUser is not implemented"))
}

func (UnimplementedGroupServiceHandler) RemoveUser(context.Context, *connect.Request[RemoveUserRequest]) (*connect.Response[RemoveUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.RemoveUser is not implemented"))
}

func (UnimplementedGroupServiceHandler) AttachRoom(context.Context, *connect.Request[AttachRoomRequest]) (*connect.Response[AttachRoomResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.AttachRoom is not implemented"))
}

func (UnimplementedGroupServiceHandler) DetachRoom(context.Context, *connect.Request[DetachRoomRequest]) (*connect.Response[DetachRoomResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupsync.v1.GroupService.DetachRoom is not implemented"))
}
