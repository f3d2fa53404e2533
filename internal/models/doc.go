// Package models defines the domain models for groupsync.
//
// # Models
//
//   - Group: a named set of users and rooms. Its name is the key operators use.
//   - Room: a room attached to a group, with the alias it was attached under.
//   - Delta: one committed change to a group, handed to reconciliation.
//
// Users and rooms are edges, not identities: the same user ID may appear in
// many groups, and two edges are the same user (or room) when their external
// identifiers are equal. Relationships are by value (ident types), never by
// pointer between models.
//
// # Desired membership
//
// The users that should occupy a room are the union of the users of every
// group the room is attached to. Delta describes how that union may have
// changed, so reconciliation only touches the pairs the change implies.
package models
