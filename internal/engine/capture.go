package engine

import (
	"slices"

	"latrones/internal/core"
)

// execute moves the piece at from to to for the side to move and resolves
// captures. It fails without touching the board when to is not a legal
// destination or when the piece is this turn's recorded capturer.
func (e *Engine) execute(from, to int) bool {
	if !ValidIndex(from) || !ValidIndex(to) {
		return false
	}
	if !slices.Contains(e.board.destinations(from, e.turn, false), to) {
		return false
	}
	if e.capturer == from {
		return false
	}

	capturedByJump := false
	if isJump(from, to) {
		fr, fc := RowCol(from)
		tr, tc := RowCol(to)
		over := Index(fr+(tr-fr)/2, fc+(tc-fc)/2)
		if jumped := e.board[over]; !jumped.IsEmpty() && jumped.Side() != e.turn {
			e.board[over] = Empty
			capturedByJump = true
		}
	}

	e.board[to] = e.board[from]
	e.board[from] = Empty

	// A jump capture ends resolution; no flanking scan for this move
	if capturedByJump {
		e.capturer = to
		return true
	}

	flankers := e.board.resolveFlanks(e.turn)
	if slices.Contains(flankers, to) && e.capturer == noSquare {
		e.capturer = to
	}
	return true
}

// resolveFlanks removes every piece sandwiched between two opposing pieces
// of the same side along a row or a column. All captures are collected
// before any square is cleared. It returns the flanking squares that belong
// to mover.
func (b *Board) resolveFlanks(mover core.Side) []int {
	var captured, flankers []int

	for i, sq := range b {
		if sq.IsEmpty() {
			continue
		}
		row, col := RowCol(i)

		if col > 0 && col < BoardSize-1 {
			if a, z, ok := b.sandwich(i, i-1, i+1); ok {
				captured = append(captured, i)
				flankers = appendFlankers(flankers, mover, b[a], a, z)
				continue
			}
		}

		if row > 0 && row < BoardSize-1 {
			if a, z, ok := b.sandwich(i, i-BoardSize, i+BoardSize); ok {
				captured = append(captured, i)
				flankers = appendFlankers(flankers, mover, b[a], a, z)
			}
		}
	}

	for _, i := range captured {
		b[i] = Empty
	}

	return flankers
}

// sandwich reports whether the piece at i is enclosed by the pieces at a and z
func (b *Board) sandwich(i, a, z int) (int, int, bool) {
	piece, left, right := b[i], b[a], b[z]
	if left.IsEmpty() || right.IsEmpty() {
		return 0, 0, false
	}
	if left != right || left == piece {
		return 0, 0, false
	}
	return a, z, true
}

func appendFlankers(flankers []int, mover core.Side, owner Square, a, z int) []int {
	if owner.Side() != mover {
		return flankers
	}
	return append(flankers, a, z)
}
