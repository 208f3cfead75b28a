package engine

import (
	"latrones/internal/core"
)

// evaluate ends the game by elimination or immobilization. It only applies
// in the movement phase.
func (e *Engine) evaluate() {
	if e.phase != core.PhaseMovement {
		return
	}

	mover, opponent := e.turn, e.turn.Opponent()
	own, other := e.board.Count(mover), e.board.Count(opponent)

	switch {
	case other == 0 && own > 0:
		e.finish(mover)
	case own == 0 && other > 0:
		e.finish(opponent)
	case !e.canMove():
		e.finish(opponent)
	}
}

// canMove reports whether the side to move has any piece with a destination
func (e *Engine) canMove() bool {
	for i := range e.board {
		if e.board.Owns(i, e.turn) && e.board.hasDestination(i, e.turn) {
			return true
		}
	}
	return false
}

func (e *Engine) finish(winner core.Side) {
	e.over = true
	e.winner = winner
}
