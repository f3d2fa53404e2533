package api

// Group is a group with its users and rooms.
type Group struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Users     []string `json:"users"`
	Rooms     []Room   `json:"rooms"`
	CreatedAt int64    `json:"created_at"`
}

// Room is a room attached to a group.
type Room struct {
	ID    string `json:"id"`
	Alias string `json:"alias,omitempty"`
}

// SyncSummary reports the reconciliation pass a change triggered.
type SyncSummary struct {
	Pass     string `json:"pass,omitempty"`
	Invited  int    `json:"invited"`
	Revoked  int    `json:"revoked"`
	Skipped  int    `json:"skipped"`
	Retained int    `json:"retained"`

	// Unresolved removals were not carried out; the users may still be in
	// the room.
	Unresolved int `json:"unresolved"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	// ExpiresAt is a Unix timestamp.
	ExpiresAt int64 `json:"expires_at"`
}

type PingRequest struct{}

type PingResponse struct {
	Message string `json:"message"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type RenameGroupRequest struct {
	Name    string `json:"name"`
	NewName string `json:"new_name"`
}

type RenameGroupResponse struct{}

type DeleteGroupRequest struct {
	Name string `json:"name"`
}

type DeleteGroupResponse struct {
	Sync SyncSummary `json:"sync"`
}

// AddUserRequest names the user as typed by the operator; bare names are
// qualified with the server's home domain.
type AddUserRequest struct {
	Group string `json:"group"`
	User  string `json:"user"`
}

type AddUserResponse struct {
	User string      `json:"user"`
	Sync SyncSummary `json:"sync"`
}

type RemoveUserRequest struct {
	Group string `json:"group"`
	User  string `json:"user"`
}

type RemoveUserResponse struct {
	User string      `json:"user"`
	Sync SyncSummary `json:"sync"`
}

// AttachRoomRequest takes a room ID ("!abc:server") or an alias, with or
// without the '#' sigil and server part.
type AttachRoomRequest struct {
	Group string `json:"group"`
	Room  string `json:"room"`
}

type AttachRoomResponse struct {
	Room Room        `json:"room"`
	Sync SyncSummary `json:"sync"`
}

type DetachRoomRequest struct {
	Group string `json:"group"`
	Room  string `json:"room"`
}

type DetachRoomResponse struct {
	Room Room        `json:"room"`
	Sync SyncSummary `json:"sync"`
}
