package core

import (
	"github.com/google/uuid"
)

// Player is one seat of a game. UserID is set when an authenticated user
// created the game.
type Player struct {
	ID     string `json:"id"`
	Side   Side   `json:"side"`
	UserID string `json:"userId,omitempty"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	Light *Player `json:"light"`
	Dark  *Player `json:"dark"`
}

// NewPlayer creates a Player with a fresh ID
func NewPlayer(side Side, userID string) *Player {
	return &Player{
		ID:     uuid.New().String(),
		Side:   side,
		UserID: userID,
	}
}
