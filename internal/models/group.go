package models

import "github.com/mmynk/groupsync/internal/ident"

// Group is a named set of users and rooms.
type Group struct {
	// ID is assigned by the store and never changes.
	ID int64

	// Name is unique and non-empty. Operators address groups by name.
	Name string

	// Users are the user edges of the group, ordered by user ID.
	Users []ident.UserID

	// Rooms are the room edges of the group, ordered by room ID.
	Rooms []Room

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasUser reports whether userID is a member of the group.
func (g *Group) HasUser(userID ident.UserID) bool {
	for _, u := range g.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// HasRoom reports whether roomID is attached to the group.
func (g *Group) HasRoom(roomID ident.RoomID) bool {
	_, ok := g.Room(roomID)
	return ok
}

// Room returns the room edge for roomID, if attached.
func (g *Group) Room(roomID ident.RoomID) (Room, bool) {
	for _, r := range g.Rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return Room{}, false
}

// Clone returns a deep copy, so a snapshot can outlive later edits.
func (g *Group) Clone() *Group {
	c := *g
	c.Users = append([]ident.UserID(nil), g.Users...)
	c.Rooms = append([]Room(nil), g.Rooms...)
	return &c
}

// Room is a room edge. Equality is by ID; Alias is what the operator typed
// when the room was attached and may be empty.
type Room struct {
	ID    ident.RoomID
	Alias ident.RoomAlias
}

// AliasOrID returns the alias when known, for log lines and listings.
func (r Room) AliasOrID() string {
	if !r.Alias.IsZero() {
		return r.Alias.String()
	}
	return r.ID.String()
}
