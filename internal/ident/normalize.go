package ident

import "strings"

// RoomRef is operator input after normalization: either a room ID or an
// alias that still has to be resolved. Exactly one field is set.
type RoomRef struct {
	ID    RoomID
	Alias RoomAlias
}

// IsAlias reports whether the reference needs alias resolution.
func (r RoomRef) IsAlias() bool { return !r.Alias.IsZero() }

func (r RoomRef) String() string {
	if r.IsAlias() {
		return r.Alias.String()
	}
	return r.ID.String()
}

// Validate reports whether the set identifier is well formed.
func (r RoomRef) Validate() error {
	if r.IsAlias() {
		return r.Alias.Validate()
	}
	return r.ID.Validate()
}

// NormalizeUserID qualifies operator input as a user ID on homeDomain:
// "alice" becomes "@alice:homeDomain", "@alice" gains the domain, and input
// that already contains ':' only gains the '@' sigil if missing.
func NormalizeUserID(input, homeDomain string) UserID {
	if !strings.HasPrefix(input, "@") {
		input = "@" + input
	}
	if !strings.Contains(input, ":") {
		input = input + ":" + homeDomain
	}
	return UserID{id: input}
}

// NormalizeRoom qualifies operator input as a room reference. Input starting
// with '!' is a room ID and is returned unchanged. Anything else is an alias:
// it gains the '#' sigil if missing and ":homeDomain" if it has no ':'.
func NormalizeRoom(input, homeDomain string) RoomRef {
	if strings.HasPrefix(input, "!") {
		return RoomRef{ID: RoomID{id: input}}
	}
	if !strings.HasPrefix(input, "#") {
		input = "#" + input
	}
	if !strings.Contains(input, ":") {
		input = input + ":" + homeDomain
	}
	return RoomRef{Alias: RoomAlias{alias: input}}
}
