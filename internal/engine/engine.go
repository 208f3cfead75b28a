// Package engine implements the rules of the placement-and-capture board game:
// a deterministic state machine driven by a single square interaction.
package engine

import (
	"latrones/internal/core"
)

const noSquare = -1

// Engine holds the complete state of one game. It is not safe for
// concurrent use; callers serialize Interact and Reset.
type Engine struct {
	board    Board
	turn     core.Side
	phase    core.Phase
	placed   [3]int // indexed by core.Side
	sel      selection
	capturer int // square of the piece that captured this turn, noSquare if none
	over     bool
	winner   core.Side
}

// New returns an engine with an empty board in the placement phase, Light to move
func New() *Engine {
	return &Engine{
		turn:     core.SideLight,
		phase:    core.PhasePlacement,
		sel:      idle(),
		capturer: noSquare,
	}
}

// NewWithOpening returns an engine with Light on the H file and Dark on the
// A file, already in the movement phase with Light to move
func NewWithOpening() *Engine {
	e := New()
	for row := 0; row < BoardSize; row++ {
		e.board[Index(row, BoardSize-1)] = Occupied(core.SideLight)
		e.board[Index(row, 0)] = Occupied(core.SideDark)
	}
	e.placed[core.SideLight] = PieceQuota
	e.placed[core.SideDark] = PieceQuota
	e.phase = core.PhaseMovement

	e.board.resolveFlanks(e.turn)
	e.evaluate()
	return e
}

// Reset replaces the state with a fresh placement-phase game
func (e *Engine) Reset() {
	*e = *New()
}

// Turn returns the side to move
func (e *Engine) Turn() core.Side {
	return e.turn
}

func (e *Engine) Phase() core.Phase {
	return e.phase
}

func (e *Engine) GameOver() bool {
	return e.over
}

// Winner returns the winning side once the game is over
func (e *Engine) Winner() (core.Side, bool) {
	if !e.over {
		return core.SideNone, false
	}
	return e.winner, true
}

// Selected returns the currently selected square, if any
func (e *Engine) Selected() (int, bool) {
	if e.sel.mode == modeIdle {
		return 0, false
	}
	return e.sel.square, true
}

// ForcedJump reports whether the selected piece must continue jumping
func (e *Engine) ForcedJump() bool {
	return e.sel.mode == modeForcedJump
}

// Placed returns how many pieces side has placed
func (e *Engine) Placed(side core.Side) int {
	if side != core.SideLight && side != core.SideDark {
		return 0
	}
	return e.placed[side]
}

// Pieces returns how many pieces side has on the board
func (e *Engine) Pieces(side core.Side) int {
	return e.board.Count(side)
}

// Occupancy returns a snapshot of the board: 0 empty, 1 Light, 2 Dark
func (e *Engine) Occupancy() [SquareCount]uint8 {
	var out [SquareCount]uint8
	for i, sq := range e.board {
		out[i] = uint8(sq)
	}
	return out
}

// ValidTargets returns the squares an interaction can currently act on:
// empty squares while placing; the selected piece's destinations while a
// piece is selected; otherwise the pieces that can be selected.
func (e *Engine) ValidTargets() []int {
	targets := []int{}
	if e.over {
		return targets
	}

	if e.phase == core.PhasePlacement {
		for i, sq := range e.board {
			if sq.IsEmpty() {
				targets = append(targets, i)
			}
		}
		return targets
	}

	if e.sel.mode != modeIdle {
		if !e.board.Owns(e.sel.square, e.turn) {
			return targets
		}
		return append(targets, e.board.destinations(e.sel.square, e.turn, e.sel.mode == modeForcedJump)...)
	}

	for i := range e.board {
		if e.board.Owns(i, e.turn) && e.board.hasDestination(i, e.turn) {
			targets = append(targets, i)
		}
	}
	return targets
}
