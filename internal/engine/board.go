package engine

import (
	"latrones/internal/core"
)

const (
	BoardSize   = 8
	SquareCount = BoardSize * BoardSize
	PieceQuota  = 8 // pieces each side places during the placement phase
)

// Square is either empty or holds a piece of one side.
type Square uint8

const Empty Square = 0

// Occupied returns the square value holding a piece of side
func Occupied(side core.Side) Square {
	return Square(side)
}

// Side returns the owner of the piece, SideNone for an empty square
func (s Square) Side() core.Side {
	return core.Side(s)
}

func (s Square) IsEmpty() bool {
	return s == Empty
}

// Board is the 8x8 grid, row-major: index = row*8 + col
type Board [SquareCount]Square

// RowCol decomposes an index into row and column
func RowCol(index int) (row, col int) {
	return index / BoardSize, index % BoardSize
}

// Index composes a row and column into a board index
func Index(row, col int) int {
	return row*BoardSize + col
}

// OnBoard reports whether the signed coordinates fall inside the grid
func OnBoard(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// ValidIndex reports whether index addresses a square
func ValidIndex(index int) bool {
	return index >= 0 && index < SquareCount
}

// Owns reports whether the square at index holds a piece of side
func (b *Board) Owns(index int, side core.Side) bool {
	return side != core.SideNone && b[index] == Occupied(side)
}

// Count returns the number of pieces of side on the board
func (b *Board) Count(side core.Side) int {
	n := 0
	for _, sq := range b {
		if sq == Occupied(side) {
			n++
		}
	}
	return n
}
