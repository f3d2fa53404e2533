package ident

import "fmt"

// UserID is a Matrix user ID such as "@alice:example.org".
type UserID struct {
	id string
}

// ParseUserID checks that raw is "@localpart:server" and wraps it.
func ParseUserID(raw string) (UserID, error) {
	if _, _, err := parsePrefixedID(raw, '@', "user ID"); err != nil {
		return UserID{}, err
	}
	return UserID{id: raw}, nil
}

// MustUserID is ParseUserID for known-good input. It panics on error.
func MustUserID(raw string) UserID {
	u, err := ParseUserID(raw)
	if err != nil {
		panic(fmt.Sprintf("ident.MustUserID(%q): %v", raw, err))
	}
	return u
}

// String returns the full user ID.
func (u UserID) String() string { return u.id }

// IsZero reports whether u is the zero value.
func (u UserID) IsZero() bool { return u.id == "" }

// Localpart returns the part between '@' and the first ':'.
// It returns "" when u is not well formed.
func (u UserID) Localpart() string {
	localpart, _, err := parsePrefixedID(u.id, '@', "user ID")
	if err != nil {
		return ""
	}
	return localpart
}

// Server returns the part after the first ':'.
// It returns "" when u is not well formed.
func (u UserID) Server() string {
	_, server, err := parsePrefixedID(u.id, '@', "user ID")
	if err != nil {
		return ""
	}
	return server
}

// Validate reports whether u is a well-formed user ID.
func (u UserID) Validate() error {
	_, err := ParseUserID(u.id)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (u UserID) MarshalText() ([]byte, error) {
	return []byte(u.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the
// zero value.
func (u *UserID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*u = UserID{}
		return nil
	}
	parsed, err := ParseUserID(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
