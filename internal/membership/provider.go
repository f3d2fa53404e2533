//go:generate go run go.uber.org/mock/mockgen -source=provider.go -destination=../mocks/mock_provider.go -package=mocks

// Package membership defines the external room service groupsync converges
// room membership against.
package membership

import (
	"context"
	"errors"

	"github.com/mmynk/groupsync/internal/ident"
)

var (
	// ErrProviderUnavailable means the provider could not be reached.
	ErrProviderUnavailable = errors.New("membership provider unavailable")

	// ErrAlreadyJoined means an invite targeted a user already in the room.
	ErrAlreadyJoined = errors.New("user already in room")

	// ErrNotAuthorized means the provider refused to remove the user.
	ErrNotAuthorized = errors.New("not authorized to remove user from room")

	// ErrAliasNotFound means a room alias does not resolve.
	ErrAliasNotFound = errors.New("room alias not found")
)

// Provider is the external system of record for actual room occupancy.
// Every call is one independent network round trip; none are atomic with
// each other.
type Provider interface {
	// ListOccupants returns the users currently joined to the room.
	ListOccupants(ctx context.Context, roomID ident.RoomID) (map[ident.UserID]struct{}, error)

	// Invite invites the user to the room.
	Invite(ctx context.Context, roomID ident.RoomID, userID ident.UserID) error

	// Revoke removes the user from the room.
	Revoke(ctx context.Context, roomID ident.RoomID, userID ident.UserID, reason string) error

	// JoinRoom joins the bot's own identity to the room.
	JoinRoom(ctx context.Context, roomID ident.RoomID) error

	// JoinedRooms lists the rooms the bot has joined.
	JoinedRooms(ctx context.Context) ([]ident.RoomID, error)

	// ResolveAlias resolves a room alias to its room ID.
	ResolveAlias(ctx context.Context, alias ident.RoomAlias) (ident.RoomID, error)
}
