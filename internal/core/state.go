package core

type State int

const (
	StateOngoing State = iota
	StateLightWins
	StateDarkWins
)

func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ongoing"
	case StateLightWins:
		return "light wins"
	case StateDarkWins:
		return "dark wins"
	default:
		return "unknown"
	}
}

// StateFor maps a finished game's winner to its terminal state
func StateFor(over bool, winner Side) State {
	if !over {
		return StateOngoing
	}
	if winner == SideDark {
		return StateDarkWins
	}
	return StateLightWins
}
