package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latrones/internal/core"
)

func TestNew(t *testing.T) {
	e := New()

	assert.Equal(t, core.SideLight, e.Turn())
	assert.Equal(t, core.PhasePlacement, e.Phase())
	assert.Equal(t, "placement", e.Phase().String())
	assert.False(t, e.GameOver())
	_, ok := e.Winner()
	assert.False(t, ok)
	_, ok = e.Selected()
	assert.False(t, ok)
	assert.Len(t, e.ValidTargets(), SquareCount)
	assert.Equal(t, [SquareCount]uint8{}, e.Occupancy())
}

func TestPlacementEndToEnd(t *testing.T) {
	e := New()

	require.True(t, e.Interact(0))
	assert.Equal(t, 1, e.Placed(core.SideLight))
	assert.Equal(t, core.SideDark, e.Turn())

	// Light fills row 0, Dark fills row 7; nothing is ever flanked
	for i := 0; i < PieceQuota; i++ {
		if i > 0 {
			require.Equal(t, core.SideLight, e.Turn(), "placement %d", 2*i+1)
			require.True(t, e.Interact(i))
		}
		require.Equal(t, core.PhasePlacement, e.Phase(), "still placing before the 16th piece")
		require.Equal(t, core.SideDark, e.Turn())
		require.True(t, e.Interact(56+i))
	}

	assert.Equal(t, core.PhaseMovement, e.Phase())
	assert.Equal(t, core.SideLight, e.Turn())
	assert.Equal(t, PieceQuota, e.Placed(core.SideLight))
	assert.Equal(t, PieceQuota, e.Placed(core.SideDark))
	assert.Equal(t, PieceQuota, e.Pieces(core.SideLight))
	assert.Equal(t, PieceQuota, e.Pieces(core.SideDark))
	assert.False(t, e.GameOver())
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, e.ValidTargets())
}

func TestPlacementOnOccupiedSquareHasNoEffect(t *testing.T) {
	e := New()
	require.True(t, e.Interact(10))
	before := *e

	assert.False(t, e.Interact(10))
	assert.Equal(t, before, *e)
}

func TestPlacementFlankCapture(t *testing.T) {
	e := New()
	require.True(t, e.Interact(9))  // light
	require.True(t, e.Interact(8))  // dark
	require.True(t, e.Interact(20)) // light
	require.True(t, e.Interact(10)) // dark closes the sandwich around 9

	assert.True(t, e.board[9].IsEmpty())
	assert.Equal(t, 1, e.Pieces(core.SideLight))
	assert.Equal(t, 2, e.Placed(core.SideLight), "counters track placements, not survivors")
	assert.Equal(t, core.SideLight, e.Turn())
}

func TestInteractRejectsOutOfRange(t *testing.T) {
	e := New()
	before := *e

	for _, sq := range []int{-1, SquareCount, 1000} {
		assert.False(t, e.Interact(sq), "square %d", sq)
	}
	assert.Equal(t, before, *e)
}

func TestNewWithOpening(t *testing.T) {
	e := NewWithOpening()

	assert.Equal(t, core.PhaseMovement, e.Phase())
	assert.Equal(t, core.SideLight, e.Turn())
	assert.False(t, e.GameOver())

	board := e.Occupancy()
	for row := 0; row < BoardSize; row++ {
		assert.Equal(t, uint8(core.SideLight), board[Index(row, 7)])
		assert.Equal(t, uint8(core.SideDark), board[Index(row, 0)])
	}
	assert.Equal(t, PieceQuota, e.Pieces(core.SideLight))
	assert.Equal(t, PieceQuota, e.Pieces(core.SideDark))
	assert.ElementsMatch(t, []int{7, 15, 23, 31, 39, 47, 55, 63}, e.ValidTargets())
}

func TestSelectAndStep(t *testing.T) {
	e := NewWithOpening()

	require.True(t, e.Interact(7))
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, 7, sel)
	assert.Equal(t, []int{6}, e.ValidTargets())

	// not a destination: rejected, selection kept
	before := *e
	assert.False(t, e.Interact(5))
	assert.Equal(t, before, *e)

	require.True(t, e.Interact(6))
	assert.Equal(t, uint8(core.SideLight), e.Occupancy()[6])
	assert.Equal(t, uint8(0), e.Occupancy()[7])
	assert.Equal(t, core.SideDark, e.Turn())
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestSelectOpponentPieceHasNoEffect(t *testing.T) {
	e := NewWithOpening()
	before := *e

	assert.False(t, e.Interact(0))
	assert.False(t, e.Interact(27))
	assert.Equal(t, before, *e)
}

func TestSelectBlockedPieceHasNoEffect(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"LL......",
		"L.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		".......D",
	)
	before := *e

	assert.False(t, e.Interact(0))
	assert.Equal(t, before, *e)
}

func TestReselectAnotherPiece(t *testing.T) {
	e := NewWithOpening()
	require.True(t, e.Interact(7))
	require.True(t, e.Interact(15))

	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, 15, sel)
	assert.Equal(t, core.SideLight, e.Turn())
}

func TestJumpCapture(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"........",
		"........",
		"........",
		"...LD...",
		"........",
		"........",
		"........",
		"D.......",
	)

	require.True(t, e.Interact(27))
	assert.Contains(t, e.ValidTargets(), 29)
	require.True(t, e.Interact(29))

	board := e.Occupancy()
	assert.Equal(t, uint8(0), board[27])
	assert.Equal(t, uint8(0), board[28], "jumped piece removed")
	assert.Equal(t, uint8(core.SideLight), board[29])
	assert.Equal(t, core.SideDark, e.Turn())
	assert.False(t, e.GameOver())
}

func TestJumpEndsTurnEvenWithFurtherJumps(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"........",
		"........",
		"........",
		"...LD.D.",
		"........",
		"........",
		"........",
		"D.......",
	)

	require.True(t, e.Interact(27))
	require.True(t, e.Interact(29))

	// a second jump over 30 would be geometrically possible, but one capture ends the turn
	assert.Equal(t, core.SideDark, e.Turn())
	assert.False(t, e.ForcedJump())
	_, ok := e.Selected()
	assert.False(t, ok)
	assert.Equal(t, uint8(core.SideDark), e.Occupancy()[30])
}

func TestFlankCaptureByMove(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"........",
		".LD.....",
		"...L....",
		"........",
		"........",
		"........",
		"........",
		".......D",
	)

	require.True(t, e.Interact(19))
	require.True(t, e.Interact(11))

	board := e.Occupancy()
	assert.Equal(t, uint8(0), board[10], "dark piece between 9 and 11 removed")
	assert.Equal(t, uint8(core.SideLight), board[11])
	assert.Equal(t, 1, e.Pieces(core.SideDark))
	assert.Equal(t, core.SideDark, e.Turn())
}

func TestMovedPieceCanBeCapturedInSamePass(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"LD.D....",
		"..L.....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	require.True(t, e.Interact(10))
	require.True(t, e.Interact(2))

	board := e.Occupancy()
	assert.Equal(t, uint8(core.SideLight), board[0])
	assert.Equal(t, uint8(0), board[1], "flanked by 0 and 2")
	assert.Equal(t, uint8(0), board[2], "moved piece flanked by 1 and 3")
	assert.Equal(t, uint8(core.SideDark), board[3])
	assert.Equal(t, core.SideDark, e.Turn())
	assert.False(t, e.GameOver())
}

func TestForcedJumpRestrictsToJumps(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"L.......",
		"........",
		"........",
		"...LD...",
		"........",
		"........",
		"........",
		".......D",
	)
	e.sel = selection{mode: modeForcedJump, square: 27}

	assert.Equal(t, []int{29}, e.ValidTargets())

	before := *e
	assert.False(t, e.Interact(26), "step rejected while a jump is pending")
	assert.Equal(t, before, *e)

	require.True(t, e.Interact(29))
	assert.Equal(t, core.SideDark, e.Turn())
	assert.Equal(t, uint8(0), e.Occupancy()[28])
}

func TestForcedJumpAbandonedByReselect(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"L.......",
		"........",
		"........",
		"...LD...",
		"........",
		"........",
		"........",
		".......D",
	)
	e.sel = selection{mode: modeForcedJump, square: 27}
	e.capturer = 27

	require.True(t, e.Interact(0))
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, sel)
	assert.False(t, e.ForcedJump())
	assert.Equal(t, noSquare, e.capturer)
}

func TestCapturerCannotMoveAgain(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"........",
		"........",
		"........",
		"...L....",
		"........",
		"........",
		"........",
		".......D",
	)
	e.sel = selection{mode: modeSelected, square: 27}
	e.capturer = 27
	before := *e

	assert.False(t, e.Interact(26))
	assert.Equal(t, before, *e)
}

func TestStaleSelectionFallsBackToSelect(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"........",
		"........",
		"........",
		"...L....",
		"........",
		"........",
		"........",
		".......D",
	)
	e.sel = selection{mode: modeSelected, square: 5}

	assert.Empty(t, e.ValidTargets())

	require.True(t, e.Interact(27))
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, 27, sel)

	e.sel = selection{mode: modeSelected, square: 5}
	assert.False(t, e.Interact(40))
	_, ok = e.Selected()
	assert.False(t, ok, "stale selection is dropped")
}

func TestWinByElimination(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"........",
		"........",
		"........",
		"...LD...",
		"........",
		"........",
		"........",
		"........",
	)

	require.True(t, e.Interact(27))
	require.True(t, e.Interact(29))

	require.True(t, e.GameOver())
	winner, ok := e.Winner()
	require.True(t, ok)
	assert.Equal(t, core.SideLight, winner)
	assert.Empty(t, e.ValidTargets())

	before := *e
	assert.False(t, e.Interact(30))
	assert.False(t, e.Interact(29))
	assert.Equal(t, before, *e)
}

func TestWinByImmobilization(t *testing.T) {
	e := fromDiagram(t, core.SideLight,
		"DLL.....",
		"L.......",
		"L.......",
		"........",
		"........",
		"L.......",
		"........",
		"........",
	)

	require.True(t, e.Interact(40))
	require.True(t, e.Interact(41))

	require.True(t, e.GameOver())
	winner, _ := e.Winner()
	assert.Equal(t, core.SideLight, winner, "dark cannot move and loses")
	assert.Equal(t, 1, e.Pieces(core.SideDark))
}

func TestReadAccessorsAreIdempotent(t *testing.T) {
	e := NewWithOpening()
	require.True(t, e.Interact(7))

	assert.Equal(t, e.Occupancy(), e.Occupancy())
	assert.Equal(t, e.ValidTargets(), e.ValidTargets())
	assert.Equal(t, e.Turn(), e.Turn())
	assert.Equal(t, e.Phase(), e.Phase())
	s1, ok1 := e.Selected()
	s2, ok2 := e.Selected()
	assert.Equal(t, s1, s2)
	assert.Equal(t, ok1, ok2)
}

func TestReset(t *testing.T) {
	e := NewWithOpening()
	require.True(t, e.Interact(7))
	require.True(t, e.Interact(6))

	e.Reset()

	assert.Equal(t, *New(), *e)
}

func TestRandomPlayPreservesInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for game := 0; game < 20; game++ {
		e := New()
		prevTotal := 0

		for step := 0; step < 2000 && !e.GameOver(); step++ {
			targets := e.ValidTargets()
			require.NotEmpty(t, targets, "live game must offer a target")

			phase := e.Phase()
			require.True(t, e.Interact(targets[rng.IntN(len(targets))]))

			light, dark := e.Pieces(core.SideLight), e.Pieces(core.SideDark)
			total := light + dark
			require.LessOrEqual(t, light, PieceQuota)
			require.LessOrEqual(t, dark, PieceQuota)
			require.LessOrEqual(t, total, 2*PieceQuota)
			if phase == core.PhaseMovement {
				require.LessOrEqual(t, total, prevTotal, "pieces never appear during movement")
			}
			prevTotal = total
		}
	}
}
