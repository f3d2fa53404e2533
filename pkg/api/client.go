package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceClient is a client for the groupsync.v1.AuthService service.
type AuthServiceClient struct {
	login *connect.Client[LoginRequest, LoginResponse]
}

// NewAuthServiceClient constructs a client for the AuthService. baseURL is
// the server's scheme and host, e.g. "http://localhost:8080".
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &AuthServiceClient{
		login: connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

// Login calls groupsync.v1.AuthService.Login.
func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// GroupServiceClient is a client for the groupsync.v1.GroupService service.
type GroupServiceClient struct {
	ping        *connect.Client[PingRequest, PingResponse]
	listGroups  *connect.Client[ListGroupsRequest, ListGroupsResponse]
	createGroup *connect.Client[CreateGroupRequest, CreateGroupResponse]
	renameGroup *connect.Client[RenameGroupRequest, RenameGroupResponse]
	deleteGroup *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	addUser     *connect.Client[AddUserRequest, AddUserResponse]
	removeUser  *connect.Client[RemoveUserRequest, RemoveUserResponse]
	attachRoom  *connect.Client[AttachRoomRequest, AttachRoomResponse]
	detachRoom  *connect.Client[DetachRoomRequest, DetachRoomResponse]
}

// NewGroupServiceClient constructs a client for the GroupService. baseURL is
// the server's scheme and host, e.g. "http://localhost:8080".
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &GroupServiceClient{
		ping:        connect.NewClient[PingRequest, PingResponse](httpClient, baseURL+GroupServicePingProcedure, opts...),
		listGroups:  connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		createGroup: connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		renameGroup: connect.NewClient[RenameGroupRequest, RenameGroupResponse](httpClient, baseURL+GroupServiceRenameGroupProcedure, opts...),
		deleteGroup: connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		addUser:     connect.NewClient[AddUserRequest, AddUserResponse](httpClient, baseURL+GroupServiceAddUserProcedure, opts...),
		removeUser:  connect.NewClient[RemoveUserRequest, RemoveUserResponse](httpClient, baseURL+GroupServiceRemoveUserProcedure, opts...),
		attachRoom:  connect.NewClient[AttachRoomRequest, AttachRoomResponse](httpClient, baseURL+GroupServiceAttachRoomProcedure, opts...),
		detachRoom:  connect.NewClient[DetachRoomRequest, DetachRoomResponse](httpClient, baseURL+GroupServiceDetachRoomProcedure, opts...),
	}
}

func (c *GroupServiceClient) Ping(ctx context.Context, req *connect.Request[PingRequest]) (*connect.Response[PingResponse], error) {
	return c.ping.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RenameGroup(ctx context.Context, req *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error) {
	return c.renameGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddUser(ctx context.Context, req *connect.Request[AddUserRequest]) (*connect.Response[AddUserResponse], error) {
	return c.addUser.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveUser(ctx context.Context, req *connect.Request[RemoveUserRequest]) (*connect.Response[RemoveUserResponse], error) {
	return c.removeUser.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AttachRoom(ctx context.Context, req *connect.Request[AttachRoomRequest]) (*connect.Response[AttachRoomResponse], error) {
	return c.attachRoom.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DetachRoom(ctx context.Context, req *connect.Request[DetachRoomRequest]) (*connect.Response[DetachRoomResponse], error) {
	return c.detachRoom.CallUnary(ctx, req)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
