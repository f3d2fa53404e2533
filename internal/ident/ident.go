// Package ident holds the Matrix identifiers groupsync stores and compares.
//
// UserID, RoomID and RoomAlias are comparable value types: two values are
// equal exactly when their identifier strings are equal, so they can be used
// as map keys and compared with ==. Group membership edges are matched by
// these values, never by store row ids.
//
// The Normalize functions turn operator shorthand ("alice", "dev") into fully
// qualified identifiers for a home domain. They never fail. The Parse
// functions check the structural format and are used at the boundaries where
// malformed identifiers must be rejected.
package ident

import (
	"fmt"
	"strings"
)

// parsePrefixedID splits sigil+localpart+":"+server into its parts.
func parsePrefixedID(identifier string, sigil byte, kind string) (localpart, server string, err error) {
	if len(identifier) < 2 || identifier[0] != sigil {
		return "", "", fmt.Errorf("invalid %s %q: must start with %c", kind, identifier, sigil)
	}
	colonIndex := strings.IndexByte(identifier[1:], ':')
	if colonIndex < 0 {
		return "", "", fmt.Errorf("invalid %s %q: missing :server", kind, identifier)
	}
	colonIndex++
	if colonIndex < 2 {
		return "", "", fmt.Errorf("invalid %s %q: empty localpart", kind, identifier)
	}
	localpart = identifier[1:colonIndex]
	server = identifier[colonIndex+1:]
	if server == "" {
		return "", "", fmt.Errorf("invalid %s %q: empty server", kind, identifier)
	}
	if strings.ContainsAny(identifier, " \t\r\n") {
		return "", "", fmt.Errorf("invalid %s %q: contains whitespace", kind, identifier)
	}
	return localpart, server, nil
}
