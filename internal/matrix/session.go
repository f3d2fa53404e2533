package matrix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/membership"
)

var _ membership.Provider = (*Session)(nil)

// Session is an authenticated Matrix client acting as the sync bot.
// Safe for concurrent use.
type Session struct {
	client      *Client
	accessToken string
}

// WhoAmI returns the user ID owning the access token.
func (s *Session) WhoAmI(ctx context.Context) (ident.UserID, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", s.accessToken, nil)
	if err != nil {
		return ident.UserID{}, fmt.Errorf("matrix: whoami failed: %w", err)
	}

	var response WhoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ident.UserID{}, fmt.Errorf("matrix: failed to parse whoami response: %w", err)
	}
	return response.UserID, nil
}

// ListOccupants returns the users currently joined to the room.
// Invited users are not occupants.
func (s *Session) ListOccupants(ctx context.Context, roomID ident.RoomID) (map[ident.UserID]struct{}, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/joined_members", url.PathEscape(roomID.String()))
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: joined members for %q failed: %w", roomID, err)
	}

	var response JoinedMembersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse joined members response: %w", err)
	}

	occupants := make(map[ident.UserID]struct{}, len(response.Joined))
	for raw := range response.Joined {
		userID, err := ident.ParseUserID(raw)
		if err != nil {
			s.client.logger.Warn("skipping malformed member id", "room_id", roomID, "user_id", raw, "error", err)
			continue
		}
		occupants[userID] = struct{}{}
	}
	return occupants, nil
}

// Invite sends a room invitation. Returns membership.ErrAlreadyJoined when
// the homeserver reports the user is already in the room.
func (s *Session) Invite(ctx context.Context, roomID ident.RoomID, userID ident.UserID) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/invite", url.PathEscape(roomID.String()))
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, InviteRequest{UserID: userID})
	if err != nil {
		if isAlreadyJoined(err) {
			return fmt.Errorf("matrix: invite %q to %q: %w", userID, roomID, membership.ErrAlreadyJoined)
		}
		return fmt.Errorf("matrix: invite %q to %q failed: %w", userID, roomID, err)
	}
	return nil
}

// Revoke kicks a user from the room. Returns membership.ErrNotAuthorized
// when the bot lacks the power level to kick.
func (s *Session) Revoke(ctx context.Context, roomID ident.RoomID, userID ident.UserID, reason string) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/kick", url.PathEscape(roomID.String()))
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, KickRequest{
		UserID: userID,
		Reason: reason,
	})
	if err != nil {
		if IsMatrixError(err, ErrCodeForbidden) {
			return fmt.Errorf("matrix: kick %q from %q: %w: %w", userID, roomID, membership.ErrNotAuthorized, err)
		}
		return fmt.Errorf("matrix: kick %q from %q failed: %w", userID, roomID, err)
	}
	return nil
}

// JoinRoom joins the bot to a room by ID.
func (s *Session) JoinRoom(ctx context.Context, roomID ident.RoomID) error {
	path := "/_matrix/client/v3/join/" + url.PathEscape(roomID.String())
	if _, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, struct{}{}); err != nil {
		return fmt.Errorf("matrix: join room %q failed: %w", roomID, err)
	}
	s.client.logger.Info("joined matrix room", "room_id", roomID)
	return nil
}

// JoinedRooms returns the rooms the bot has joined.
func (s *Session) JoinedRooms(ctx context.Context) ([]ident.RoomID, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/joined_rooms", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: joined rooms failed: %w", err)
	}

	var response JoinedRoomsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse joined rooms response: %w", err)
	}
	return response.JoinedRooms, nil
}

// ResolveAlias looks up the room ID for an alias. Returns
// membership.ErrAliasNotFound when the directory has no such alias.
func (s *Session) ResolveAlias(ctx context.Context, alias ident.RoomAlias) (ident.RoomID, error) {
	path := "/_matrix/client/v3/directory/room/" + url.PathEscape(alias.String())
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		if IsMatrixError(err, ErrCodeNotFound) {
			return ident.RoomID{}, fmt.Errorf("matrix: resolve alias %q: %w", alias, membership.ErrAliasNotFound)
		}
		return ident.RoomID{}, fmt.Errorf("matrix: resolve alias %q failed: %w", alias, err)
	}

	var response ResolveAliasResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ident.RoomID{}, fmt.Errorf("matrix: failed to parse resolve alias response: %w", err)
	}
	if response.RoomID.IsZero() {
		return ident.RoomID{}, fmt.Errorf("matrix: resolve alias %q: empty room_id", alias)
	}
	return response.RoomID, nil
}

// isAlreadyJoined matches the homeserver's refusal to invite a joined user.
// Synapse and Conduit both answer M_FORBIDDEN with a message to that effect.
func isAlreadyJoined(err error) bool {
	var matrixErr *MatrixError
	if !errors.As(err, &matrixErr) || matrixErr.Code != ErrCodeForbidden {
		return false
	}
	message := strings.ToLower(matrixErr.Message)
	return strings.Contains(message, "already in the room") || strings.Contains(message, "already joined")
}
