package ident

import "fmt"

// RoomID is a server-assigned Matrix room ID such as "!abc123:example.org".
type RoomID struct {
	id string
}

// ParseRoomID checks that raw is "!opaque:server" and wraps it.
func ParseRoomID(raw string) (RoomID, error) {
	if _, _, err := parsePrefixedID(raw, '!', "room ID"); err != nil {
		return RoomID{}, err
	}
	return RoomID{id: raw}, nil
}

// MustRoomID is ParseRoomID for known-good input. It panics on error.
func MustRoomID(raw string) RoomID {
	r, err := ParseRoomID(raw)
	if err != nil {
		panic(fmt.Sprintf("ident.MustRoomID(%q): %v", raw, err))
	}
	return r
}

func (r RoomID) String() string { return r.id }

func (r RoomID) IsZero() bool { return r.id == "" }

// Validate reports whether r is a well-formed room ID.
func (r RoomID) Validate() error {
	_, err := ParseRoomID(r.id)
	return err
}

func (r RoomID) MarshalText() ([]byte, error) {
	return []byte(r.id), nil
}

func (r *RoomID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = RoomID{}
		return nil
	}
	parsed, err := ParseRoomID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoomAlias is a human-readable room name such as "#dev:example.org".
// Aliases resolve to a RoomID through the homeserver directory.
type RoomAlias struct {
	alias string
}

// ParseRoomAlias checks that raw is "#localpart:server" and wraps it.
func ParseRoomAlias(raw string) (RoomAlias, error) {
	if _, _, err := parsePrefixedID(raw, '#', "room alias"); err != nil {
		return RoomAlias{}, err
	}
	return RoomAlias{alias: raw}, nil
}

// MustRoomAlias is ParseRoomAlias for known-good input. It panics on error.
func MustRoomAlias(raw string) RoomAlias {
	a, err := ParseRoomAlias(raw)
	if err != nil {
		panic(fmt.Sprintf("ident.MustRoomAlias(%q): %v", raw, err))
	}
	return a
}

func (a RoomAlias) String() string { return a.alias }

func (a RoomAlias) IsZero() bool { return a.alias == "" }

// Validate reports whether a is a well-formed alias.
func (a RoomAlias) Validate() error {
	_, err := ParseRoomAlias(a.alias)
	return err
}

func (a RoomAlias) MarshalText() ([]byte, error) {
	return []byte(a.alias), nil
}

func (a *RoomAlias) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = RoomAlias{}
		return nil
	}
	parsed, err := ParseRoomAlias(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
