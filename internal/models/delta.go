package models

import "github.com/mmynk/groupsync/internal/ident"

// DeltaKind names the membership-affecting change a Delta describes.
type DeltaKind int

const (
	UserAdded DeltaKind = iota + 1
	UserRemoved
	RoomAdded
	RoomRemoved
	GroupDeleted
)

func (k DeltaKind) String() string {
	switch k {
	case UserAdded:
		return "user_added"
	case UserRemoved:
		return "user_removed"
	case RoomAdded:
		return "room_added"
	case RoomRemoved:
		return "room_removed"
	case GroupDeleted:
		return "group_deleted"
	default:
		return "unknown"
	}
}

// Delta is one committed change to a group's edges. Store mutations return
// it and the reconciliation engine consumes it after commit.
type Delta struct {
	Kind DeltaKind

	// Group is a snapshot of the group. For additions and removals it is the
	// state after the change; for GroupDeleted it is the state just before
	// deletion.
	Group *Group

	// User is set for UserAdded and UserRemoved.
	User ident.UserID

	// Room is set for RoomAdded and RoomRemoved.
	Room Room
}

// IsAddition reports whether the delta can only grant access.
func (d Delta) IsAddition() bool {
	return d.Kind == UserAdded || d.Kind == RoomAdded
}

// Pair is one (room, user) combination that a delta grants or revokes.
type Pair struct {
	Room Room
	User ident.UserID
}

// Pairs returns the (room, user) combinations the delta implies:
//   - UserAdded, UserRemoved: the user with every room of the group
//   - RoomAdded, RoomRemoved: the room with every user of the group
//   - GroupDeleted: every room of the group with every user of the group
func (d Delta) Pairs() []Pair {
	if d.Group == nil {
		return nil
	}
	var pairs []Pair
	switch d.Kind {
	case UserAdded, UserRemoved:
		for _, room := range d.Group.Rooms {
			pairs = append(pairs, Pair{Room: room, User: d.User})
		}
	case RoomAdded, RoomRemoved:
		for _, user := range d.Group.Users {
			pairs = append(pairs, Pair{Room: d.Room, User: user})
		}
	case GroupDeleted:
		for _, room := range d.Group.Rooms {
			for _, user := range d.Group.Users {
				pairs = append(pairs, Pair{Room: room, User: user})
			}
		}
	}
	return pairs
}
