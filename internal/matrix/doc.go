// Package matrix implements membership.Provider on the Matrix client-server
// API.
//
// [Client] holds the homeserver URL and HTTP transport. [Session] adds the
// bot's access token and carries every authenticated call groupsync makes:
// joined members, invite, kick, join, joined rooms, alias resolution and
// whoami.
//
// Every non-2xx response is decoded into a [*MatrixError] carrying the Matrix
// error code (M_FORBIDDEN, M_NOT_FOUND, ...) and HTTP status. Session methods
// translate the codes that matter to reconciliation into the membership
// sentinel errors, so callers test with errors.Is:
//
//   - no response, 5xx or M_LIMIT_EXCEEDED: membership.ErrProviderUnavailable
//   - invite of a joined user: membership.ErrAlreadyJoined
//   - kick refused with M_FORBIDDEN: membership.ErrNotAuthorized
//   - alias lookup with M_NOT_FOUND: membership.ErrAliasNotFound
//
// Request URLs are built by string concatenation with url.PathEscape on each
// identifier, so aliases and room IDs are encoded exactly once.
package matrix
