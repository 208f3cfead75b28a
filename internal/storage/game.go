package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, opening,
			light_player_id, light_user_id,
			dark_player_id, dark_user_id,
			winner, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Opening,
			record.LightPlayerID, record.LightUserID,
			record.DarkPlayerID, record.DarkUserID,
			record.Winner, record.StartTimeUTC,
		)
		return err
	})
}

// RecordAction asynchronously records an accepted interaction
func (s *Store) RecordAction(record ActionRecord) {
	s.enqueue("action", func(tx *sql.Tx) error {
		query := `INSERT INTO actions (
			game_id, action_number, square, side, phase, board_after, action_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.ActionNumber, record.Square,
			record.Side, record.Phase, record.BoardAfter, record.ActionTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously stores the winner of a game. An empty winner
// marks the game as ongoing again.
func (s *Store) RecordResult(gameID, winner string) {
	s.enqueue("result", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET winner = ? WHERE game_id = ?`, winner, gameID)
		return err
	})
}

// ResetGame asynchronously drops all actions of a game and records its new
// opening, used when a game is started over
func (s *Store) ResetGame(gameID, opening string) {
	s.enqueue("reset", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM actions WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE games SET opening = ?, winner = '' WHERE game_id = ?`, opening, gameID)
		return err
	})
}

// QueryGames retrieves games with optional filtering; "" or "*" matches all
func (s *Store) QueryGames(gameID, userID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, opening,
		light_player_id, light_user_id,
		dark_player_id, dark_user_id,
		winner, start_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if userID != "" && userID != "*" {
		query += " AND (light_user_id = ? OR dark_user_id = ?)"
		args = append(args, userID, userID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.Opening,
			&g.LightPlayerID, &g.LightUserID,
			&g.DarkPlayerID, &g.DarkUserID,
			&g.Winner, &g.StartTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryActions retrieves the actions of a game in order
func (s *Store) QueryActions(gameID string) ([]ActionRecord, error) {
	query := `SELECT
		action_id, game_id, action_number, square, side, phase, board_after, action_time_utc
	FROM actions WHERE game_id = ? ORDER BY action_number ASC`

	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var actions []ActionRecord
	for rows.Next() {
		var a ActionRecord
		err := rows.Scan(
			&a.ActionID, &a.GameID, &a.ActionNumber, &a.Square,
			&a.Side, &a.Phase, &a.BoardAfter, &a.ActionTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return actions, nil
}
