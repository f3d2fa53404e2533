package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	Ping(context.Context, *connect.Request[PingRequest]) (*connect.Response[PingResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	RenameGroup(context.Context, *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddUser(context.Context, *connect.Request[AddUserRequest]) (*connect.Response[AddUserResponse], error)
	RemoveUser(context.Context, *connect.Request[RemoveUserRequest]) (*connect.Response[RemoveUserResponse], error)
	AttachRoom(context.Context, *connect.Request[AttachRoomRequest]) (*connect.Response[AttachRoomResponse], error)
	DetachRoom(context.Context, *connect.Request[DetachRoomRequest]) (*connect.Response[DetachRoomResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		AuthServiceLoginProcedure: connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
	}
	return "/" + AuthServiceName + "/", router(routes)
}

// NewGroupServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		GroupServicePingProcedure:        connect.NewUnaryHandler(GroupServicePingProcedure, svc.Ping, opts...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceRenameGroupProcedure: connect.NewUnaryHandler(GroupServiceRenameGroupProcedure, svc.RenameGroup, opts...),
		GroupServiceDeleteGroupProcedure: connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceAddUserProcedure:     connect.NewUnaryHandler(GroupServiceAddUserProcedure, svc.AddUser, opts...),
		GroupServiceRemoveUserProcedure:  connect.NewUnaryHandler(GroupServiceRemoveUserProcedure, svc.RemoveUser, opts...),
		GroupServiceAttachRoomProcedure:  connect.NewUnaryHandler(GroupServiceAttachRoomProcedure, svc.AttachRoom, opts...),
		GroupServiceDetachRoomProcedure:  connect.NewUnaryHandler(GroupServiceDetachRoomProcedure, svc.DetachRoom, opts...),
	}
	return "/" + GroupServiceName + "/", router(routes)
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := routes[r.URL.Path]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
