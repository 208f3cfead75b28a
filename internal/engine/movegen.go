package engine

import (
	"latrones/internal/core"
)

// orthogonal directions as (row, col) deltas: up, down, left, right
var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// destinations enumerates the squares the piece at from may reach. A step
// onto an adjacent empty square is included unless jumpsOnly is set; a jump
// over an adjacent opposing piece onto the empty square beyond is always
// included. The piece at from is assumed to belong to mover.
func (b *Board) destinations(from int, mover core.Side, jumpsOnly bool) []int {
	if !ValidIndex(from) {
		return nil
	}

	var dests []int
	row, col := RowCol(from)

	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		if !OnBoard(r, c) {
			continue
		}

		adjacent := b[Index(r, c)]
		switch {
		case adjacent.IsEmpty():
			if !jumpsOnly {
				dests = append(dests, Index(r, c))
			}
		case adjacent.Side() != mover:
			jr, jc := r+d[0], c+d[1]
			if OnBoard(jr, jc) && b[Index(jr, jc)].IsEmpty() {
				dests = append(dests, Index(jr, jc))
			}
		}
	}

	return dests
}

// hasDestination reports whether the piece at from has any legal move
func (b *Board) hasDestination(from int, mover core.Side) bool {
	return len(b.destinations(from, mover, false)) > 0
}

// isJump reports whether the displacement from -> to spans two squares in
// either axis
func isJump(from, to int) bool {
	fr, fc := RowCol(from)
	tr, tc := RowCol(to)
	return abs(tr-fr) == 2 || abs(tc-fc) == 2
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
