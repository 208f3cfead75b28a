package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latrones/internal/core"
	"latrones/internal/storage"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newStoredService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "svc.db"), false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc := New(store, testSecret)
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return svc, store
}

func flush(t *testing.T, store *storage.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, store.Flush(ctx))
}

func TestGameLifecycle(t *testing.T) {
	svc := New(nil, testSecret)
	assert.Equal(t, "disabled", svc.GetStorageHealth())

	id, snap, err := svc.CreateGame(core.OpeningEmpty, "")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.GameCount())
	assert.Equal(t, core.PhasePlacement, snap.Phase)
	assert.Len(t, snap.ValidTargets, 64)

	snap, err = svc.Interact(id, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ActionCount)
	assert.Equal(t, core.SideDark, snap.Turn)

	snap, err = svc.Interact(id, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, 1, snap.ActionCount)

	board, err := svc.GetBoard(id)
	require.NoError(t, err)
	assert.Contains(t, board, "1 L * * * * * * *  1")

	snap, err = svc.ResetGame(id, core.OpeningFixed)
	require.NoError(t, err)
	assert.Equal(t, core.PhaseMovement, snap.Phase)
	assert.Zero(t, snap.ActionCount)

	require.NoError(t, svc.DeleteGame(id))
	assert.ErrorIs(t, svc.DeleteGame(id), ErrGameNotFound)

	_, err = svc.GetGame(id)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = svc.Interact(id, 1)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = svc.ResetGame(id, "")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

// darkSweep is a placement order in which Dark captures every Light piece
// as it lands, so the game is over once placement completes.
var darkSweep = []int{1, 0, 3, 2, 1, 4, 1, 56, 3, 57, 1, 58, 3, 59, 1, 60}

func TestInteractAfterGameOver(t *testing.T) {
	svc := New(nil, testSecret)
	id, _, err := svc.CreateGame(core.OpeningEmpty, "")
	require.NoError(t, err)

	for _, sq := range darkSweep {
		_, err = svc.Interact(id, sq)
		require.NoError(t, err, "square %d", sq)
	}

	snap, err := svc.GetGame(id)
	require.NoError(t, err)
	require.True(t, snap.Over)
	assert.Equal(t, core.SideDark, snap.Winner)
	assert.Equal(t, [2]int{0, 8}, snap.Pieces)
	assert.Empty(t, snap.ValidTargets)

	_, err = svc.Interact(id, 16)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestGameLimit(t *testing.T) {
	svc := New(nil, testSecret)
	for i := 0; i < MaxGames; i++ {
		_, _, err := svc.CreateGame(core.OpeningEmpty, "")
		require.NoError(t, err)
	}

	_, _, err := svc.CreateGame(core.OpeningEmpty, "")
	assert.ErrorIs(t, err, ErrTooManyGames)
}

func TestLongPollWakesOnAction(t *testing.T) {
	svc := New(nil, testSecret)
	id, snap, err := svc.CreateGame(core.OpeningEmpty, "")
	require.NoError(t, err)

	notify := svc.RegisterWait(context.Background(), id, snap.ActionCount)

	// A rejected click changes nothing and must not wake the waiter
	_, err = svc.Interact(id, 64)
	require.Error(t, err)
	select {
	case <-notify:
		t.Fatal("woken without a state change")
	case <-time.After(50 * time.Millisecond):
	}

	_, err = svc.Interact(id, 5)
	require.NoError(t, err)

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not notified")
	}
}

func TestLongPollWakesOnDelete(t *testing.T) {
	svc := New(nil, testSecret)
	id, _, err := svc.CreateGame(core.OpeningEmpty, "")
	require.NoError(t, err)

	notify := svc.RegisterWait(context.Background(), id, 0)
	require.NoError(t, svc.DeleteGame(id))

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not released on delete")
	}
}

func TestWaitRegistryTimeoutAndShutdown(t *testing.T) {
	w := NewWaitRegistry(20 * time.Millisecond)

	select {
	case <-w.RegisterWait(context.Background(), "g", 0):
	case <-time.After(time.Second):
		t.Fatal("wait did not time out")
	}
	require.Eventually(t, func() bool { return w.Waiting("g") == 0 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	notify := w.RegisterWait(ctx, "g", 0)
	cancel()
	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("wait not released on cancel")
	}

	long := NewWaitRegistry(time.Hour)
	notify = long.RegisterWait(context.Background(), "g", 0)
	require.NoError(t, long.Shutdown(time.Second))
	select {
	case <-notify:
	default:
		t.Fatal("wait not released on shutdown")
	}

	// Registrations after shutdown return immediately
	select {
	case <-long.RegisterWait(context.Background(), "g", 0):
	default:
		t.Fatal("wait after shutdown should be released")
	}
}

func TestGamesArePersisted(t *testing.T) {
	svc, store := newStoredService(t)
	assert.Equal(t, "ok", svc.GetStorageHealth())

	id, _, err := svc.CreateGame(core.OpeningEmpty, "user-1")
	require.NoError(t, err)
	_, err = svc.Interact(id, 0)
	require.NoError(t, err)
	_, err = svc.Interact(id, 63)
	require.NoError(t, err)
	flush(t, store)

	games, err := store.QueryGames(id, "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "user-1", games[0].LightUserID)

	actions, err := store.QueryActions(id)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "light", actions[0].Side)
	assert.Equal(t, "dark", actions[1].Side)
	assert.Len(t, actions[1].BoardAfter, 64)
	assert.Equal(t, byte('1'), actions[1].BoardAfter[0])
	assert.Equal(t, byte('2'), actions[1].BoardAfter[63])

	_, err = svc.ResetGame(id, core.OpeningFixed)
	require.NoError(t, err)
	flush(t, store)

	actions, err = store.QueryActions(id)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestUsers(t *testing.T) {
	svc, _ := newStoredService(t)

	user, err := svc.CreateUser("alice", "alice@example.com", "correct-horse", false)
	require.NoError(t, err)
	assert.False(t, user.Temporary)

	_, err = svc.CreateUser("ALICE", "", "other-password", true)
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.AuthenticateUser("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.AuthenticateUser("nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	authed, err := svc.AuthenticateUser("alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, authed.UserID)

	token, err := svc.GenerateUserToken(user.UserID)
	require.NoError(t, err)

	userID, _, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)

	_, _, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.GetUserByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	temp, err := svc.CreateUser("guest", "", "guest-password", true)
	require.NoError(t, err)
	assert.True(t, temp.Temporary)
}

func TestUsersRequireStorage(t *testing.T) {
	svc := New(nil, testSecret)

	_, err := svc.CreateUser("alice", "", "pw", false)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.AuthenticateUser("alice", "pw")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.GenerateUserToken("x")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
