package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latrones/internal/core"
)

func newTestGame(opening core.Opening) *Game {
	return New(opening, core.NewPlayer(core.SideLight, ""), core.NewPlayer(core.SideDark, ""))
}

func TestNewDefaultsToEmptyOpening(t *testing.T) {
	g := newTestGame("")

	assert.Equal(t, core.OpeningEmpty, g.Opening())
	assert.Equal(t, core.PhasePlacement, g.Engine().Phase())
	assert.Equal(t, core.StateOngoing, g.State())
	assert.Zero(t, g.ActionCount())
	assert.Nil(t, g.LastResult())
	assert.NotNil(t, g.GetPlayer(core.SideLight))
	assert.NotNil(t, g.GetPlayer(core.SideDark))
}

func TestFixedOpening(t *testing.T) {
	g := newTestGame(core.OpeningFixed)

	assert.Equal(t, core.PhaseMovement, g.Engine().Phase())
	assert.Equal(t, 8, g.Engine().Pieces(core.SideLight))
}

func TestInteractCountsAcceptedActions(t *testing.T) {
	g := newTestGame(core.OpeningEmpty)

	result, ok := g.Interact(12)
	require.True(t, ok)
	assert.Equal(t, ActionResult{Square: 12, Side: core.SideLight, Phase: core.PhasePlacement}, result)
	assert.Equal(t, 1, g.ActionCount())
	require.NotNil(t, g.LastResult())
	assert.Equal(t, result, *g.LastResult())

	_, ok = g.Interact(12)
	assert.False(t, ok)
	assert.Equal(t, 1, g.ActionCount(), "rejected actions are not counted")

	_, ok = g.Interact(64)
	assert.False(t, ok)
}

func TestResetClearsBookkeeping(t *testing.T) {
	g := newTestGame(core.OpeningFixed)
	_, ok := g.Interact(7)
	require.True(t, ok)

	g.Reset()

	assert.Equal(t, core.OpeningEmpty, g.Opening())
	assert.Equal(t, core.PhasePlacement, g.Engine().Phase())
	assert.Zero(t, g.ActionCount())
	assert.Nil(t, g.LastResult())
}

func TestASCIIMarksTargets(t *testing.T) {
	g := newTestGame(core.OpeningFixed)
	_, ok := g.Interact(7)
	require.True(t, ok)

	lines := strings.Split(g.ASCII(), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "1 D . . . . . * L  1", lines[8])
}

func TestResetToFixedOpening(t *testing.T) {
	g := newTestGame(core.OpeningEmpty)
	_, ok := g.Interact(0)
	require.True(t, ok)

	g.ResetTo(core.OpeningFixed)

	assert.Equal(t, core.OpeningFixed, g.Opening())
	assert.Equal(t, core.PhaseMovement, g.Engine().Phase())
	assert.Zero(t, g.ActionCount())

	g.ResetTo("")
	assert.Equal(t, core.OpeningEmpty, g.Opening())
	assert.Equal(t, core.PhasePlacement, g.Engine().Phase())
}

func TestSnapshotIsDetached(t *testing.T) {
	g := newTestGame(core.OpeningFixed)
	_, ok := g.Interact(7)
	require.True(t, ok)

	snap := g.Snapshot()
	assert.Equal(t, core.SideLight, snap.Turn)
	assert.Equal(t, 7, snap.Selected)
	assert.Equal(t, []int{6}, snap.ValidTargets)
	assert.Equal(t, [2]int{8, 8}, snap.Pieces)
	assert.Equal(t, 1, snap.ActionCount)
	require.NotNil(t, snap.LastResult)
	assert.Equal(t, g.GetPlayer(core.SideLight).ID, snap.Light.ID)

	_, ok = g.Interact(6)
	require.True(t, ok)

	assert.Equal(t, uint8(1), snap.Board[7], "snapshot keeps the old position")
	assert.Equal(t, 7, snap.LastResult.Square)
	assert.Equal(t, core.SideDark, g.Snapshot().Turn)
	assert.Equal(t, -1, g.Snapshot().Selected)
}
