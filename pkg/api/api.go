// Package api is the groupsync admin RPC surface: message types, procedure
// names, handlers and clients for the AuthService and GroupService Connect
// services.
//
// Messages are plain Go structs carried by the JSON codec in this package.
// Clients must be built with NewAuthServiceClient or NewGroupServiceClient,
// which install the codec.
package api

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "groupsync.v1.AuthService"
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "groupsync.v1.GroupService"
)

const (
	AuthServiceLoginProcedure = "/groupsync.v1.AuthService/Login"

	GroupServicePingProcedure        = "/groupsync.v1.GroupService/Ping"
	GroupServiceListGroupsProcedure  = "/groupsync.v1.GroupService/ListGroups"
	GroupServiceCreateGroupProcedure = "/groupsync.v1.GroupService/CreateGroup"
	GroupServiceRenameGroupProcedure = "/groupsync.v1.GroupService/RenameGroup"
	GroupServiceDeleteGroupProcedure = "/groupsync.v1.GroupService/DeleteGroup"
	GroupServiceAddUserProcedure     = "/groupsync.v1.GroupService/AddUser"
	GroupServiceRemoveUserProcedure  = "/groupsync.v1.GroupService/RemoveUser"
	GroupServiceAttachRoomProcedure  = "/groupsync.v1.GroupService/AttachRoom"
	GroupServiceDetachRoomProcedure  = "/groupsync.v1.GroupService/DetachRoom"
)
