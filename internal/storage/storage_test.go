package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	require.NoError(t, s.InitDB())
	t.Cleanup(func() { s.Close() })
	return s
}

func flush(t *testing.T, s *Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func TestGameAndActionRecords(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)

	s.RecordNewGame(GameRecord{
		GameID:        "g1",
		Opening:       "empty",
		LightPlayerID: "pl",
		LightUserID:   "u1",
		DarkPlayerID:  "pd",
		StartTimeUTC:  start,
	})
	s.RecordAction(ActionRecord{GameID: "g1", ActionNumber: 1, Square: 0, Side: "light", Phase: "placement", BoardAfter: "1", ActionTimeUTC: start})
	s.RecordAction(ActionRecord{GameID: "g1", ActionNumber: 2, Square: 63, Side: "dark", Phase: "placement", BoardAfter: "12", ActionTimeUTC: start})
	s.RecordResult("g1", "dark")
	flush(t, s)

	require.True(t, s.IsHealthy())

	games, err := s.QueryGames("g1", "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "empty", games[0].Opening)
	assert.Equal(t, "dark", games[0].Winner)
	assert.True(t, start.Equal(games[0].StartTimeUTC))

	byUser, err := s.QueryGames("*", "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	none, err := s.QueryGames("", "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	actions, err := s.QueryActions("g1")
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, 1, actions[0].ActionNumber)
	assert.Equal(t, 63, actions[1].Square)
	assert.Equal(t, "dark", actions[1].Side)
}

func TestResetGameDropsActions(t *testing.T) {
	s := newTestStore(t)

	s.RecordNewGame(GameRecord{GameID: "g1", Opening: "fixed", LightPlayerID: "a", DarkPlayerID: "b", StartTimeUTC: time.Now().UTC()})
	s.RecordAction(ActionRecord{GameID: "g1", ActionNumber: 1, Square: 7, Side: "light", Phase: "movement", BoardAfter: "0", ActionTimeUTC: time.Now().UTC()})
	s.RecordResult("g1", "light")
	s.ResetGame("g1", "empty")
	flush(t, s)

	actions, err := s.QueryActions("g1")
	require.NoError(t, err)
	assert.Empty(t, actions)

	games, err := s.QueryGames("g1", "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "empty", games[0].Opening)
	assert.Empty(t, games[0].Winner)
}

func TestFailedWriteDegradesStore(t *testing.T) {
	s := newTestStore(t)

	// No matching game row violates the foreign key
	s.RecordAction(ActionRecord{GameID: "missing", ActionNumber: 1, Side: "light", Phase: "placement", BoardAfter: "", ActionTimeUTC: time.Now().UTC()})

	require.Eventually(t, func() bool { return !s.IsHealthy() }, 5*time.Second, 10*time.Millisecond)

	// Writes are dropped once degraded
	s.RecordNewGame(GameRecord{GameID: "g2", Opening: "empty", LightPlayerID: "a", DarkPlayerID: "b", StartTimeUTC: time.Now().UTC()})
	games, err := s.QueryGames("", "")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	past := now.Add(-time.Hour)

	require.NoError(t, s.CreateUser(UserRecord{
		UserID: "u1", Username: "Alice", Email: "alice@example.com",
		PasswordHash: "hash", AccountType: "permanent", CreatedAt: now,
	}))
	require.NoError(t, s.CreateUser(UserRecord{
		UserID: "u2", Username: "bob",
		PasswordHash: "hash", AccountType: "temp", CreatedAt: now, ExpiresAt: &past,
	}))

	err := s.CreateUser(UserRecord{UserID: "u3", Username: "alice", PasswordHash: "x", AccountType: "temp", CreatedAt: now})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	user, err := s.GetUserByUsername("ALICE")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Nil(t, user.ExpiresAt)

	user, err = s.GetUserByID("u2")
	require.NoError(t, err)
	assert.Empty(t, user.Email)
	require.NotNil(t, user.ExpiresAt)

	require.NoError(t, s.UpdateUserLastLoginSync("u1", now))
	user, err = s.GetUserByID("u1")
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)

	users, err := s.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)

	n, err := s.DeleteExpiredTempUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.GetUserByID("u2")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, s.DeleteUserByID("u1"))
	assert.ErrorIs(t, s.DeleteUserByID("u1"), sql.ErrNoRows)
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.db")
	s, err := NewStore(path, true)
	require.NoError(t, err)
	require.NoError(t, s.InitDB())

	require.NoError(t, s.DeleteDB())
	assert.NoFileExists(t, path)
}
