package matrix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/membership"
)

var (
	testRoom = ident.MustRoomID("!room1:local")
	testUser = ident.MustUserID("@bob:local")
)

// newTestSession creates a Client and Session pointing at a test server.
func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{HomeserverURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	session, err := client.SessionFromToken("test-token")
	if err != nil {
		t.Fatalf("SessionFromToken failed: %v", err)
	}
	return session
}

func assertAuth(t *testing.T, request *http.Request) {
	t.Helper()
	if got := request.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("unexpected Authorization header: %q", got)
	}
}

func writeJSON(writer http.ResponseWriter, value any) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(value)
}

func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(MatrixError{Code: code, Message: message})
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error for empty HomeserverURL")
	}
	if _, err := NewClient(ClientConfig{HomeserverURL: "ftp://example.org"}); err == nil {
		t.Error("expected error for non-http scheme")
	}
	client, err := NewClient(ClientConfig{HomeserverURL: "https://example.org/"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.baseURL != "https://example.org" {
		t.Errorf("trailing slash not trimmed: %q", client.baseURL)
	}
	if _, err := client.SessionFromToken(""); err == nil {
		t.Error("expected error for empty access token")
	}
}

func TestWhoAmI(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request)
		if request.URL.Path != "/_matrix/client/v3/account/whoami" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		writeJSON(writer, map[string]string{"user_id": "@bot:local", "device_id": "DEV1"})
	}))

	userID, err := session.WhoAmI(context.Background())
	if err != nil {
		t.Fatalf("WhoAmI failed: %v", err)
	}
	if userID.String() != "@bot:local" {
		t.Errorf("unexpected user ID: %s", userID)
	}
}

func TestListOccupants(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request)
		if request.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", request.Method)
		}
		if request.URL.Path != "/_matrix/client/v3/rooms/!room1:local/joined_members" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		writeJSON(writer, map[string]any{
			"joined": map[string]any{
				"@alice:local": map[string]string{"display_name": "Alice"},
				"@bob:local":   map[string]string{},
				"not-a-user":   map[string]string{},
			},
		})
	}))

	occupants, err := session.ListOccupants(context.Background(), testRoom)
	if err != nil {
		t.Fatalf("ListOccupants failed: %v", err)
	}
	if len(occupants) != 2 {
		t.Fatalf("expected 2 occupants, got %d", len(occupants))
	}
	if _, ok := occupants[ident.MustUserID("@alice:local")]; !ok {
		t.Error("alice missing from occupants")
	}
	if _, ok := occupants[testUser]; !ok {
		t.Error("bob missing from occupants")
	}
}

func TestInvite(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assertAuth(t, request)
			if request.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", request.Method)
			}
			var body InviteRequest
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if body.UserID != testUser {
				t.Errorf("unexpected user_id: %s", body.UserID)
			}
			writeJSON(writer, struct{}{})
		}))

		if err := session.Invite(context.Background(), testRoom, testUser); err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
	})

	t.Run("already joined", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeError(writer, http.StatusForbidden, ErrCodeForbidden, "@bob:local is already in the room.")
		}))

		err := session.Invite(context.Background(), testRoom, testUser)
		if !errors.Is(err, membership.ErrAlreadyJoined) {
			t.Fatalf("expected ErrAlreadyJoined, got %v", err)
		}
	})

	t.Run("forbidden for other reasons", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeError(writer, http.StatusForbidden, ErrCodeForbidden, "You don't have permission to invite users")
		}))

		err := session.Invite(context.Background(), testRoom, testUser)
		if errors.Is(err, membership.ErrAlreadyJoined) {
			t.Fatal("permission error classified as already joined")
		}
		if !IsMatrixError(err, ErrCodeForbidden) {
			t.Errorf("expected M_FORBIDDEN, got %v", err)
		}
	})
}

func TestRevoke(t *testing.T) {
	t.Run("success with reason", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body KickRequest
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if body.UserID != testUser {
				t.Errorf("unexpected user_id: %s", body.UserID)
			}
			if body.Reason != "removed from group eng" {
				t.Errorf("unexpected reason: %q", body.Reason)
			}
			writeJSON(writer, struct{}{})
		}))

		if err := session.Revoke(context.Background(), testRoom, testUser, "removed from group eng"); err != nil {
			t.Fatalf("Revoke failed: %v", err)
		}
	})

	t.Run("not authorized", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeError(writer, http.StatusForbidden, ErrCodeForbidden, "You cannot kick user @bob:local.")
		}))

		err := session.Revoke(context.Background(), testRoom, testUser, "")
		if !errors.Is(err, membership.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})
}

func TestJoinedRoomsAndJoin(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request)
		switch request.URL.Path {
		case "/_matrix/client/v3/joined_rooms":
			writeJSON(writer, map[string]any{"joined_rooms": []string{"!a:local", "!b:local"}})
		case "/_matrix/client/v3/join/!room1:local":
			writeJSON(writer, map[string]string{"room_id": "!room1:local"})
		default:
			t.Errorf("unexpected path: %s", request.URL.Path)
			writeError(writer, http.StatusNotFound, ErrCodeNotFound, "no such endpoint")
		}
	}))

	rooms, err := session.JoinedRooms(context.Background())
	if err != nil {
		t.Fatalf("JoinedRooms failed: %v", err)
	}
	if len(rooms) != 2 || rooms[0].String() != "!a:local" || rooms[1].String() != "!b:local" {
		t.Errorf("unexpected rooms: %v", rooms)
	}

	if err := session.JoinRoom(context.Background(), testRoom); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}
}

func TestResolveAlias(t *testing.T) {
	alias := ident.MustRoomAlias("#dev:local")

	t.Run("found", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/_matrix/client/v3/directory/room/#dev:local" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			writeJSON(writer, map[string]any{"room_id": "!room1:local", "servers": []string{"local"}})
		}))

		roomID, err := session.ResolveAlias(context.Background(), alias)
		if err != nil {
			t.Fatalf("ResolveAlias failed: %v", err)
		}
		if roomID != testRoom {
			t.Errorf("unexpected room ID: %s", roomID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeError(writer, http.StatusNotFound, ErrCodeNotFound, "Room alias #dev:local not found")
		}))

		_, err := session.ResolveAlias(context.Background(), alias)
		if !errors.Is(err, membership.ErrAliasNotFound) {
			t.Fatalf("expected ErrAliasNotFound, got %v", err)
		}
	})
}

func TestUnavailable(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeError(writer, http.StatusBadGateway, ErrCodeUnknown, "upstream down")
		}))

		_, err := session.JoinedRooms(context.Background())
		if !errors.Is(err, membership.ErrProviderUnavailable) {
			t.Fatalf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeError(writer, http.StatusTooManyRequests, ErrCodeLimitExceeded, "Too many requests")
		}))

		err := session.Invite(context.Background(), testRoom, testUser)
		if !errors.Is(err, membership.ErrProviderUnavailable) {
			t.Fatalf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("non-json error body", func(t *testing.T) {
		session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			http.Error(writer, "bad gateway", http.StatusBadGateway)
		}))

		_, err := session.ListOccupants(context.Background(), testRoom)
		if !errors.Is(err, membership.ErrProviderUnavailable) {
			t.Fatalf("expected ErrProviderUnavailable, got %v", err)
		}
		if !IsMatrixError(err, ErrCodeUnknown) {
			t.Errorf("expected M_UNKNOWN, got %v", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client, err := NewClient(ClientConfig{HomeserverURL: url})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		session, err := client.SessionFromToken("test-token")
		if err != nil {
			t.Fatalf("SessionFromToken failed: %v", err)
		}
		_, err = session.WhoAmI(context.Background())
		if !errors.Is(err, membership.ErrProviderUnavailable) {
			t.Fatalf("expected ErrProviderUnavailable, got %v", err)
		}
	})
}
