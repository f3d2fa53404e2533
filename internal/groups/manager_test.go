package groups

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/membership"
	"github.com/mmynk/groupsync/internal/mocks"
	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/internal/session"
	"github.com/mmynk/groupsync/internal/storage/sqlite"
)

const domain = "example.org"

var (
	alice   = ident.MustUserID("@alice:example.org")
	bob     = ident.MustUserID("@bob:example.org")
	devID   = ident.MustRoomID("!dev:example.org")
	devName = ident.MustRoomAlias("#dev:example.org")
)

func newTestManager(t *testing.T) (*Manager, *mocks.MockProvider) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	engine := reconcile.NewEngine(store, provider, nil, nil)
	runner := session.NewRunner(store, engine, nil)
	return NewManager(runner, provider, domain, nil), provider
}

func requireReason(t *testing.T, err error, reason session.Reason) {
	t.Helper()
	var validationErr *session.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, reason, validationErr.Reason, validationErr.Message)
}

// attachDev attaches #dev to the group with the bot already joined.
func attachDev(t *testing.T, m *Manager, provider *mocks.MockProvider, name string) {
	t.Helper()
	provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(devID, nil)
	provider.EXPECT().JoinedRooms(gomock.Any()).Return([]ident.RoomID{devID}, nil)
	_, err := m.AttachRoom(context.Background(), name, "dev")
	require.NoError(t, err)
}

func TestCreate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, _ := newTestManager(t)

	group, err := m.Create(ctx, "eng")
	req.NoError(err)
	req.Equal("eng", group.Name)
	req.NotZero(group.ID)

	// Creating eng twice is rejected and the store keeps one row
	_, err = m.Create(ctx, "eng")
	requireReason(t, err, session.Conflict)

	groups, err := m.List(ctx)
	req.NoError(err)
	req.Len(groups, 1)

	// Names are case-sensitive
	_, err = m.Create(ctx, "Eng")
	req.NoError(err)
}

func TestCreate_InvalidName(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create(context.Background(), "")
	requireReason(t, err, session.Invalid)

	_, err = m.Create(context.Background(), strings.Repeat("a", 256))
	requireReason(t, err, session.Invalid)
}

func TestRename(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.Create(ctx, "eng")
	req.NoError(err)
	_, err = m.Create(ctx, "ops")
	req.NoError(err)

	requireReason(t, m.Rename(ctx, "missing", "x"), session.NotFound)
	requireReason(t, m.Rename(ctx, "eng", "ops"), session.Conflict)
	req.NoError(m.Rename(ctx, "eng", "eng"))
	req.NoError(m.Rename(ctx, "eng", "engineering"))

	groups, err := m.List(ctx)
	req.NoError(err)
	req.Equal("engineering", groups[0].Name)
	req.Equal("ops", groups[1].Name)
}

func TestAddUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)

	_, err := m.Create(ctx, "eng")
	req.NoError(err)
	attachDev(t, m, provider, "eng")

	// Bare names are qualified with the home domain
	provider.EXPECT().ListOccupants(gomock.Any(), devID).Return(map[ident.UserID]struct{}{}, nil)
	provider.EXPECT().Invite(gomock.Any(), devID, bob).Return(nil)

	outcome, err := m.AddUser(ctx, "eng", "bob")
	req.NoError(err)
	req.Equal(bob, outcome.User)
	req.Equal(1, outcome.Report.Invited)

	// Adding bob again is rejected before any provider call
	_, err = m.AddUser(ctx, "eng", "@bob:example.org")
	requireReason(t, err, session.Conflict)

	_, err = m.AddUser(ctx, "missing", "bob")
	requireReason(t, err, session.NotFound)

	_, err = m.AddUser(ctx, "eng", "not a user")
	requireReason(t, err, session.Invalid)
}

func TestAddUser_InviteFailureKeepsMembership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)

	_, err := m.Create(ctx, "eng")
	req.NoError(err)
	attachDev(t, m, provider, "eng")

	provider.EXPECT().ListOccupants(gomock.Any(), devID).Return(map[ident.UserID]struct{}{}, nil)
	provider.EXPECT().Invite(gomock.Any(), devID, alice).Return(membership.ErrProviderUnavailable)

	_, err = m.AddUser(ctx, "eng", "alice")
	var providerErr *reconcile.ProviderError
	req.ErrorAs(err, &providerErr)
	req.False(session.IsValidation(err))

	groups, err := m.List(ctx)
	req.NoError(err)
	req.True(groups[0].HasUser(alice))
}

func TestRemoveUser_UnionAcrossGroups(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)

	// eng: users=[alice,bob], rooms=[#dev]; ops: users=[bob], rooms=[#dev]
	for _, name := range []string{"eng", "ops"} {
		_, err := m.Create(ctx, name)
		req.NoError(err)
		attachDev(t, m, provider, name)
	}
	provider.EXPECT().ListOccupants(gomock.Any(), devID).Return(map[ident.UserID]struct{}{}, nil).Times(3)
	provider.EXPECT().Invite(gomock.Any(), devID, gomock.Any()).Return(nil).Times(3)
	for _, add := range [][2]string{{"eng", "alice"}, {"eng", "bob"}, {"ops", "bob"}} {
		_, err := m.AddUser(ctx, add[0], add[1])
		req.NoError(err)
	}

	// Removing bob from eng keeps him in #dev through ops
	outcome, err := m.RemoveUser(ctx, "eng", "bob")
	req.NoError(err)
	req.Equal(1, outcome.Report.Retained)

	// Removing bob from ops afterwards revokes him from #dev
	provider.EXPECT().Revoke(gomock.Any(), devID, bob, gomock.Any()).Return(nil).Times(1)
	outcome, err = m.RemoveUser(ctx, "ops", "bob")
	req.NoError(err)
	req.Equal(1, outcome.Report.Revoked)

	_, err = m.RemoveUser(ctx, "ops", "bob")
	requireReason(t, err, session.NotFound)
}

func TestAttachRoom(t *testing.T) {
	t.Run("joins before attaching", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		m, provider := newTestManager(t)
		_, err := m.Create(ctx, "eng")
		req.NoError(err)

		gomock.InOrder(
			provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(devID, nil),
			provider.EXPECT().JoinedRooms(gomock.Any()).Return(nil, nil),
			provider.EXPECT().JoinRoom(gomock.Any(), devID).Return(nil),
		)

		outcome, err := m.AttachRoom(ctx, "eng", "#dev")
		req.NoError(err)
		req.Equal(devID, outcome.Room.ID)
		req.Equal(devName, outcome.Room.Alias)

		groups, err := m.List(ctx)
		req.NoError(err)
		req.True(groups[0].HasRoom(devID))
	})

	t.Run("room id skips resolution", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		m, provider := newTestManager(t)
		_, err := m.Create(ctx, "eng")
		req.NoError(err)

		provider.EXPECT().JoinedRooms(gomock.Any()).Return([]ident.RoomID{devID}, nil)

		outcome, err := m.AttachRoom(ctx, "eng", "!dev:example.org")
		req.NoError(err)
		req.True(outcome.Room.Alias.IsZero())
	})

	t.Run("already attached", func(t *testing.T) {
		ctx := context.Background()
		m, provider := newTestManager(t)
		_, err := m.Create(ctx, "eng")
		require.NoError(t, err)
		attachDev(t, m, provider, "eng")

		// The recorded alias is matched without a directory lookup
		_, err = m.AttachRoom(ctx, "eng", "dev")
		requireReason(t, err, session.Conflict)
	})

	t.Run("new alias for an attached room", func(t *testing.T) {
		ctx := context.Background()
		m, provider := newTestManager(t)
		_, err := m.Create(ctx, "eng")
		require.NoError(t, err)
		provider.EXPECT().JoinedRooms(gomock.Any()).Return([]ident.RoomID{devID}, nil)
		_, err = m.AttachRoom(ctx, "eng", "!dev:example.org")
		require.NoError(t, err)

		// Resolved, then rejected before any join attempt
		provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(devID, nil)
		_, err = m.AttachRoom(ctx, "eng", "#dev")
		requireReason(t, err, session.Conflict)
	})

	t.Run("unknown alias", func(t *testing.T) {
		ctx := context.Background()
		m, provider := newTestManager(t)
		_, err := m.Create(ctx, "eng")
		require.NoError(t, err)

		provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(ident.RoomID{}, membership.ErrAliasNotFound)
		_, err = m.AttachRoom(ctx, "eng", "dev")
		requireReason(t, err, session.NotFound)
	})

	t.Run("missing group makes no provider call", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := m.AttachRoom(context.Background(), "eng", "dev")
		requireReason(t, err, session.NotFound)
	})

	t.Run("join failure rolls back", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		m, provider := newTestManager(t)
		_, err := m.Create(ctx, "eng")
		req.NoError(err)

		provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(devID, nil)
		provider.EXPECT().JoinedRooms(gomock.Any()).Return(nil, nil)
		provider.EXPECT().JoinRoom(gomock.Any(), devID).Return(errors.New("forbidden"))

		_, err = m.AttachRoom(ctx, "eng", "dev")
		req.ErrorIs(err, session.ErrUnexpected)

		groups, err := m.List(ctx)
		req.NoError(err)
		req.Empty(groups[0].Rooms)
	})
}

func TestDetachRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)

	_, err := m.Create(ctx, "eng")
	req.NoError(err)
	attachDev(t, m, provider, "eng")
	provider.EXPECT().ListOccupants(gomock.Any(), devID).Return(map[ident.UserID]struct{}{alice: {}}, nil)
	_, err = m.AddUser(ctx, "eng", "alice")
	req.NoError(err)

	// The alias recorded on attach is used without a directory lookup
	provider.EXPECT().Revoke(gomock.Any(), devID, alice, "removed from group eng").Return(nil)

	outcome, err := m.DetachRoom(ctx, "eng", "#dev:example.org")
	req.NoError(err)
	req.Equal(devName, outcome.Room.Alias)
	req.Equal(1, outcome.Report.Revoked)

	_, err = m.DetachRoom(ctx, "eng", "!dev:example.org")
	requireReason(t, err, session.NotFound)
}

func TestDetachRoom_UnrecordedAlias(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)

	_, err := m.Create(ctx, "eng")
	req.NoError(err)
	provider.EXPECT().JoinedRooms(gomock.Any()).Return([]ident.RoomID{devID}, nil)
	_, err = m.AttachRoom(ctx, "eng", "!dev:example.org")
	req.NoError(err)

	provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(devID, nil)
	outcome, err := m.DetachRoom(ctx, "eng", "dev")
	req.NoError(err)
	req.Equal(devID, outcome.Room.ID)

	groups, err := m.List(ctx)
	req.NoError(err)
	req.Empty(groups[0].Rooms)
}

func TestAttachRoom_SlowJoinDoesNotBlockOtherSessions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)
	_, err := m.Create(ctx, "eng")
	req.NoError(err)

	joining := make(chan struct{})
	release := make(chan struct{})
	provider.EXPECT().ResolveAlias(gomock.Any(), devName).Return(devID, nil)
	provider.EXPECT().JoinedRooms(gomock.Any()).Return(nil, nil)
	provider.EXPECT().JoinRoom(gomock.Any(), devID).DoAndReturn(func(context.Context, ident.RoomID) error {
		close(joining)
		<-release
		return nil
	})

	attached := make(chan error, 1)
	go func() {
		_, err := m.AttachRoom(ctx, "eng", "dev")
		attached <- err
	}()
	<-joining

	start := time.Now()
	_, err = m.Create(ctx, "ops")
	req.NoError(err)
	groups, err := m.List(ctx)
	req.NoError(err)
	req.Len(groups, 2)
	req.Less(time.Since(start), 2*time.Second)

	close(release)
	req.NoError(<-attached)
	groups, err = m.List(ctx)
	req.NoError(err)
	req.True(groups[0].HasRoom(devID))
}

func TestDelete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m, provider := newTestManager(t)

	_, err := m.Create(ctx, "eng")
	req.NoError(err)
	attachDev(t, m, provider, "eng")
	provider.EXPECT().ListOccupants(gomock.Any(), devID).Return(map[ident.UserID]struct{}{alice: {}}, nil)
	_, err = m.AddUser(ctx, "eng", "alice")
	req.NoError(err)

	// eng is the only group granting alice #dev
	provider.EXPECT().Revoke(gomock.Any(), devID, alice, gomock.Any()).Return(nil)
	outcome, err := m.Delete(ctx, "eng")
	req.NoError(err)
	req.Equal(1, outcome.Report.Revoked)

	_, err = m.Delete(ctx, "eng")
	requireReason(t, err, session.NotFound)

	groups, err := m.List(ctx)
	req.NoError(err)
	req.Empty(groups)
}

func TestPing(t *testing.T) {
	m, _ := newTestManager(t)
	pong, err := m.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pong", pong)
}
