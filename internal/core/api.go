package core

// Request types

type CreateGameRequest struct {
	Opening Opening `json:"opening,omitempty" validate:"omitempty,oneof=empty fixed"`
}

// ResetRequest selects the opening a game restarts with; empty by default
type ResetRequest struct {
	Opening Opening `json:"opening,omitempty" validate:"omitempty,oneof=empty fixed"`
}

// InteractRequest carries the clicked square. A pointer so that square 0
// passes the required check.
type InteractRequest struct {
	Square *int `json:"square" validate:"required,min=0,max=63"`
}

// Response types

type GameResponse struct {
	GameID       string          `json:"gameId"`
	Opening      Opening         `json:"opening"`
	Turn         string          `json:"turn"`  // "light" or "dark"
	Phase        string          `json:"phase"` // "placement" or "movement"
	State        string          `json:"state"` // "ongoing", "light wins", "dark wins"
	Winner       string          `json:"winner,omitempty"`
	Selected     *int            `json:"selected,omitempty"`
	Board        []int           `json:"board"` // 64 entries, 0 empty, 1 light, 2 dark
	ValidTargets []int           `json:"validTargets"`
	Placed       SideCounts      `json:"placed"`
	Pieces       SideCounts      `json:"pieces"`
	ActionCount  int             `json:"actionCount"`
	Players      PlayersResponse `json:"players"`
	LastAction   *ActionInfo     `json:"lastAction,omitempty"`
}

type SideCounts struct {
	Light int `json:"light"`
	Dark  int `json:"dark"`
}

type ActionInfo struct {
	Square int    `json:"square"`
	Side   string `json:"side"`
	Phase  string `json:"phase"`
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
