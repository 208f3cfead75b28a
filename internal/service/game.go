package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"latrones/internal/core"
	"latrones/internal/game"
	"latrones/internal/storage"
)

// CreateGame registers a new game. Both seats go to userID, which may be
// empty for anonymous games.
func (s *Service) CreateGame(opening core.Opening, userID string) (string, game.Snapshot, error) {
	light := core.NewPlayer(core.SideLight, userID)
	dark := core.NewPlayer(core.SideDark, userID)
	g := game.New(opening, light, dark)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) >= MaxGames {
		return "", game.Snapshot{}, ErrTooManyGames
	}

	gameID := uuid.New().String()
	for _, taken := s.games[gameID]; taken; _, taken = s.games[gameID] {
		gameID = uuid.New().String()
	}
	s.games[gameID] = g

	snap := g.Snapshot()

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        gameID,
			Opening:       string(g.Opening()),
			LightPlayerID: light.ID,
			LightUserID:   userID,
			DarkPlayerID:  dark.ID,
			DarkUserID:    userID,
			Winner:        winnerName(snap),
			StartTimeUTC:  time.Now().UTC(),
		})
	}

	return gameID, snap, nil
}

// GetGame returns a snapshot of the game
func (s *Service) GetGame(gameID string) (game.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Snapshot{}, ErrGameNotFound
	}
	return g.Snapshot(), nil
}

// GetBoard returns the ASCII rendering of the game board
func (s *Service) GetBoard(gameID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return "", ErrGameNotFound
	}
	return g.ASCII(), nil
}

// Interact applies a square click. ErrGameOver and ErrIllegalAction report
// clicks that left the game unchanged.
func (s *Service) Interact(gameID string, square int) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Snapshot{}, ErrGameNotFound
	}

	if g.Engine().GameOver() {
		return g.Snapshot(), ErrGameOver
	}

	result, accepted := g.Interact(square)
	snap := g.Snapshot()
	if !accepted {
		return snap, ErrIllegalAction
	}

	if s.store != nil {
		s.store.RecordAction(storage.ActionRecord{
			GameID:        gameID,
			ActionNumber:  snap.ActionCount,
			Square:        result.Square,
			Side:          result.Side.String(),
			Phase:         result.Phase.String(),
			BoardAfter:    encodeBoard(snap.Board[:]),
			ActionTimeUTC: time.Now().UTC(),
		})
		if snap.Over {
			s.store.RecordResult(gameID, winnerName(snap))
		}
	}

	s.waiter.NotifyGame(gameID, snap.ActionCount)
	return snap, nil
}

// ResetGame starts a game over with the given opening
func (s *Service) ResetGame(gameID string, opening core.Opening) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Snapshot{}, ErrGameNotFound
	}

	g.ResetTo(opening)
	snap := g.Snapshot()

	if s.store != nil {
		s.store.ResetGame(gameID, string(g.Opening()))
		if snap.Over {
			s.store.RecordResult(gameID, winnerName(snap))
		}
	}

	s.waiter.WakeGame(gameID)
	return snap, nil
}

// DeleteGame removes a game from memory; its stored record is kept
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return ErrGameNotFound
	}
	delete(s.games, gameID)

	s.waiter.WakeGame(gameID)
	return nil
}

// GameCount returns the number of games held in memory
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func winnerName(snap game.Snapshot) string {
	if !snap.Over {
		return ""
	}
	return snap.Winner.String()
}

// encodeBoard writes one digit per square
func encodeBoard(board []uint8) string {
	var sb strings.Builder
	sb.Grow(len(board))
	for _, code := range board {
		sb.WriteByte('0' + code)
	}
	return sb.String()
}
