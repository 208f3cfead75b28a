package core

import "fmt"

// Side identifies one of the two players. The numeric values double as the
// occupancy codes of the board snapshot.
type Side uint8

const (
	SideNone Side = iota
	SideLight
	SideDark
)

func (s Side) String() string {
	switch s {
	case SideLight:
		return "light"
	case SideDark:
		return "dark"
	default:
		return "-"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "light":
		*s = SideLight
	case "dark":
		*s = SideDark
	case "-", "":
		*s = SideNone
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// Opponent returns the other side, SideNone stays SideNone
func (s Side) Opponent() Side {
	switch s {
	case SideLight:
		return SideDark
	case SideDark:
		return SideLight
	default:
		return SideNone
	}
}

type Phase int

const (
	PhasePlacement Phase = iota
	PhaseMovement
)

func (p Phase) String() string {
	if p == PhaseMovement {
		return "movement"
	}
	return "placement"
}

// Opening selects how a game is set up
type Opening string

const (
	OpeningEmpty Opening = "empty" // placement phase on an empty board
	OpeningFixed Opening = "fixed" // both sides on their edge files, movement phase
)
