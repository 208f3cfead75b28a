package engine

import (
	"latrones/internal/core"
)

// mode is the selection sub-state of the movement phase
type mode int

const (
	modeIdle       mode = iota // nothing selected
	modeSelected               // a piece is selected and may step or jump
	modeForcedJump             // the selected piece just jumped and must keep jumping
)

func (m mode) String() string {
	switch m {
	case modeSelected:
		return "selected"
	case modeForcedJump:
		return "forced-jump"
	default:
		return "idle"
	}
}

type selection struct {
	mode   mode
	square int
}

func idle() selection {
	return selection{mode: modeIdle, square: noSquare}
}

type stateKey struct {
	phase core.Phase
	mode  mode
}

type transition func(e *Engine, square int) bool

// transitions maps every reachable (phase, selection) state to its handler.
// Placement never holds a selection.
var transitions = map[stateKey]transition{
	{core.PhasePlacement, modeIdle}:      (*Engine).place,
	{core.PhaseMovement, modeIdle}:       (*Engine).choose,
	{core.PhaseMovement, modeSelected}:   (*Engine).actSelected,
	{core.PhaseMovement, modeForcedJump}: (*Engine).actForcedJump,
}

// Interact applies a click on square and reports whether anything changed.
// Out-of-range squares and actions after the game has ended have no effect.
func (e *Engine) Interact(square int) bool {
	if !ValidIndex(square) || e.over {
		return false
	}

	handle, ok := transitions[stateKey{e.phase, e.sel.mode}]
	if !ok {
		return false
	}
	return handle(e, square)
}

// place drops a piece of the side to move onto an empty square
func (e *Engine) place(square int) bool {
	if !e.board[square].IsEmpty() {
		return false
	}

	e.board[square] = Occupied(e.turn)
	e.placed[e.turn]++

	if e.placed[core.SideLight] >= PieceQuota && e.placed[core.SideDark] >= PieceQuota {
		e.phase = core.PhaseMovement
		e.turn = core.SideLight
		e.capturer = noSquare
	} else {
		e.switchSide()
	}

	e.board.resolveFlanks(e.turn)
	e.evaluate()
	return true
}

// choose selects an own piece that has at least one destination
func (e *Engine) choose(square int) bool {
	if !e.board.Owns(square, e.turn) || !e.board.hasDestination(square, e.turn) {
		return false
	}
	e.sel = selection{mode: modeSelected, square: square}
	e.capturer = noSquare
	return true
}

func (e *Engine) actSelected(square int) bool {
	return e.act(square, false)
}

func (e *Engine) actForcedJump(square int) bool {
	return e.act(square, true)
}

// act handles a click while a piece is selected
func (e *Engine) act(square int, forced bool) bool {
	from := e.sel.square

	// The selected piece is gone; treat the click as a fresh selection
	if !e.board.Owns(from, e.turn) {
		e.sel = idle()
		return e.choose(square)
	}

	// Switching to another piece abandons a pending jump chain
	if square != from && e.board.Owns(square, e.turn) && e.board.hasDestination(square, e.turn) {
		return e.choose(square)
	}

	if forced && !isJump(from, square) {
		return false
	}

	return e.move(from, square)
}

// move executes from -> to and decides whether the turn continues
func (e *Engine) move(from, to int) bool {
	if !e.execute(from, to) {
		return false
	}

	survived := e.board.Owns(to, e.turn)
	if isJump(from, to) && survived && e.capturer != to &&
		len(e.board.destinations(to, e.turn, true)) > 0 {
		e.sel = selection{mode: modeForcedJump, square: to}
	} else {
		e.endTurn()
	}

	e.evaluate()
	return true
}

func (e *Engine) endTurn() {
	e.sel = idle()
	e.switchSide()
}

// switchSide hands the move to the opponent and forgets this turn's capturer
func (e *Engine) switchSide() {
	e.turn = e.turn.Opponent()
	e.capturer = noSquare
}
