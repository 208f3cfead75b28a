package game

import (
	"latrones/internal/board"
	"latrones/internal/core"
	"latrones/internal/engine"
)

// ActionResult describes an accepted interaction
type ActionResult struct {
	Square int        `json:"square"`
	Side   core.Side  `json:"side"`  // side that acted
	Phase  core.Phase `json:"phase"` // phase the action was taken in
}

// Game couples a rules engine with the seats and bookkeeping the host needs.
// It keeps no move history.
type Game struct {
	engine      *engine.Engine
	opening     core.Opening
	players     map[core.Side]*core.Player
	actionCount int
	lastResult  *ActionResult
}

func New(opening core.Opening, lightPlayer, darkPlayer *core.Player) *Game {
	if opening == "" {
		opening = core.OpeningEmpty
	}

	return &Game{
		engine:  newEngine(opening),
		opening: opening,
		players: map[core.Side]*core.Player{
			core.SideLight: lightPlayer,
			core.SideDark:  darkPlayer,
		},
	}
}

func newEngine(opening core.Opening) *engine.Engine {
	if opening == core.OpeningFixed {
		return engine.NewWithOpening()
	}
	return engine.New()
}

// Interact forwards a square click to the engine. The returned result is
// only meaningful when ok is true.
func (g *Game) Interact(square int) (ActionResult, bool) {
	result := ActionResult{
		Square: square,
		Side:   g.engine.Turn(),
		Phase:  g.engine.Phase(),
	}

	if !g.engine.Interact(square) {
		return result, false
	}

	g.actionCount++
	g.lastResult = &result
	return result, true
}

// Reset starts the game over on an empty board in the placement phase
func (g *Game) Reset() {
	g.engine.Reset()
	g.restart(core.OpeningEmpty)
}

// ResetTo starts the game over with the given opening
func (g *Game) ResetTo(opening core.Opening) {
	if opening != core.OpeningFixed {
		g.Reset()
		return
	}
	g.engine = newEngine(opening)
	g.restart(opening)
}

func (g *Game) restart(opening core.Opening) {
	g.opening = opening
	g.actionCount = 0
	g.lastResult = nil
}

// Engine exposes the engine for read access
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

func (g *Game) Opening() core.Opening {
	return g.opening
}

func (g *Game) GetPlayer(side core.Side) *core.Player {
	return g.players[side]
}

// ActionCount returns the number of accepted interactions since creation or reset
func (g *Game) ActionCount() int {
	return g.actionCount
}

func (g *Game) LastResult() *ActionResult {
	return g.lastResult
}

func (g *Game) State() core.State {
	winner, over := g.engine.Winner()
	return core.StateFor(over, winner)
}

// ASCII renders the current board with the valid targets marked
func (g *Game) ASCII() string {
	occupancy := g.engine.Occupancy()
	return board.ToASCII(occupancy[:], g.engine.ValidTargets())
}

// Snapshot is a copy of everything a client needs to render the game. It
// shares nothing with the live game.
type Snapshot struct {
	Opening      core.Opening
	Turn         core.Side
	Phase        core.Phase
	Over         bool
	Winner       core.Side
	Selected     int // -1 when nothing is selected
	Board        [engine.SquareCount]uint8
	ValidTargets []int
	Placed       [2]int // light, dark
	Pieces       [2]int // light, dark
	ActionCount  int
	Light        core.Player
	Dark         core.Player
	LastResult   *ActionResult
}

// Snapshot copies the current state
func (g *Game) Snapshot() Snapshot {
	e := g.engine
	winner, over := e.Winner()

	selected := -1
	if sq, ok := e.Selected(); ok {
		selected = sq
	}

	snap := Snapshot{
		Opening:      g.opening,
		Turn:         e.Turn(),
		Phase:        e.Phase(),
		Over:         over,
		Winner:       winner,
		Selected:     selected,
		Board:        e.Occupancy(),
		ValidTargets: e.ValidTargets(),
		Placed:       [2]int{e.Placed(core.SideLight), e.Placed(core.SideDark)},
		Pieces:       [2]int{e.Pieces(core.SideLight), e.Pieces(core.SideDark)},
		ActionCount:  g.actionCount,
	}

	if p := g.players[core.SideLight]; p != nil {
		snap.Light = *p
	}
	if p := g.players[core.SideDark]; p != nil {
		snap.Dark = *p
	}
	if g.lastResult != nil {
		last := *g.lastResult
		snap.LastResult = &last
	}

	return snap
}
