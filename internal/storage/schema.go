package storage

import "time"

// UserRecord represents a user account in the database
type UserRecord struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	AccountType  string     `db:"account_type"` // "permanent" or "temp"
	CreatedAt    time.Time  `db:"created_at"`
	ExpiresAt    *time.Time `db:"expires_at"` // nil for permanent
	LastLoginAt  *time.Time `db:"last_login_at"`
}

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string    `db:"game_id"`
	Opening       string    `db:"opening"`
	LightPlayerID string    `db:"light_player_id"`
	LightUserID   string    `db:"light_user_id"`
	DarkPlayerID  string    `db:"dark_player_id"`
	DarkUserID    string    `db:"dark_user_id"`
	Winner        string    `db:"winner"` // "light", "dark", or empty while ongoing
	StartTimeUTC  time.Time `db:"start_time_utc"`
}

// ActionRecord represents a row in the actions table
type ActionRecord struct {
	ActionID      int64     `db:"action_id"`
	GameID        string    `db:"game_id"`
	ActionNumber  int       `db:"action_number"`
	Square        int       `db:"square"`
	Side          string    `db:"side"`
	Phase         string    `db:"phase"`
	BoardAfter    string    `db:"board_after"` // 64 digits, 0 empty, 1 light, 2 dark
	ActionTimeUTC time.Time `db:"action_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL COLLATE NOCASE,
	email TEXT COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	account_type TEXT NOT NULL DEFAULT 'temp' CHECK(account_type IN ('permanent', 'temp')),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME,
	last_login_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_users_account_type ON users(account_type);
CREATE INDEX IF NOT EXISTS idx_users_expires_at ON users(expires_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique ON users(email) WHERE email IS NOT NULL AND email != '';

CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	opening TEXT NOT NULL CHECK(opening IN ('empty', 'fixed')),
	light_player_id TEXT NOT NULL,
	light_user_id TEXT NOT NULL DEFAULT '',
	dark_player_id TEXT NOT NULL,
	dark_user_id TEXT NOT NULL DEFAULT '',
	winner TEXT NOT NULL DEFAULT '' CHECK(winner IN ('', 'light', 'dark')),
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS actions (
	action_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	action_number INTEGER NOT NULL,
	square INTEGER NOT NULL CHECK(square BETWEEN 0 AND 63),
	side TEXT NOT NULL CHECK(side IN ('light', 'dark')),
	phase TEXT NOT NULL CHECK(phase IN ('placement', 'movement')),
	board_after TEXT NOT NULL,
	action_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, action_number)
);

CREATE INDEX IF NOT EXISTS idx_actions_game_id ON actions(game_id);
CREATE INDEX IF NOT EXISTS idx_games_light_user ON games(light_user_id);
CREATE INDEX IF NOT EXISTS idx_games_dark_user ON games(dark_user_id);
`
