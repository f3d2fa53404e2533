package matrix

import "github.com/mmynk/groupsync/internal/ident"

// WhoAmIResponse is returned by /account/whoami.
type WhoAmIResponse struct {
	UserID   ident.UserID `json:"user_id"`
	DeviceID string       `json:"device_id,omitempty"`
}

// JoinedMembersResponse is returned by /rooms/{roomId}/joined_members.
// Keys are raw user IDs.
type JoinedMembersResponse struct {
	Joined map[string]JoinedMember `json:"joined"`
}

// JoinedMember is the profile part of a joined_members entry.
type JoinedMember struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// JoinedRoomsResponse is returned by /joined_rooms.
type JoinedRoomsResponse struct {
	JoinedRooms []ident.RoomID `json:"joined_rooms"`
}

// ResolveAliasResponse is returned by /directory/room/{alias}.
type ResolveAliasResponse struct {
	RoomID  ident.RoomID `json:"room_id"`
	Servers []string     `json:"servers"`
}

// InviteRequest is the body of /rooms/{roomId}/invite.
type InviteRequest struct {
	UserID ident.UserID `json:"user_id"`
}

// KickRequest is the body of /rooms/{roomId}/kick.
type KickRequest struct {
	UserID ident.UserID `json:"user_id"`
	Reason string       `json:"reason,omitempty"`
}
