package board

import (
	"fmt"
	"strings"
)

const (
	size    = 8
	squares = size * size
)

// Piece codes of an occupancy snapshot
const (
	CodeEmpty = 0
	CodeLight = 1
	CodeDark  = 2
)

// ParseSquare converts a square name ("a1".."h8") or a plain index ("0".."63")
// to a board index. Row 0 is rank 1, column 0 is file a.
func ParseSquare(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty square")
	}

	if s[0] >= 'a' && s[0] <= 'h' {
		if len(s) != 2 || s[1] < '1' || s[1] > '8' {
			return 0, fmt.Errorf("invalid square name: %q", s)
		}
		col := int(s[0] - 'a')
		row := int(s[1] - '1')
		return row*size + col, nil
	}

	var index int
	if _, err := fmt.Sscanf(s, "%d", &index); err != nil {
		return 0, fmt.Errorf("invalid square: %q", s)
	}
	if index < 0 || index >= squares {
		return 0, fmt.Errorf("square out of range: %d", index)
	}
	return index, nil
}

// SquareName returns the algebraic name of index, "-" when out of range
func SquareName(index int) string {
	if index < 0 || index >= squares {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+index%size, index/size+1)
}

// ToASCII creates an ASCII representation of an occupancy snapshot with rank
// 8 on top. Empty squares listed in targets are drawn as '*'.
func ToASCII(occupancy []uint8, targets []int) string {
	marked := make(map[int]bool, len(targets))
	for _, t := range targets {
		marked[t] = true
	}

	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for row := size - 1; row >= 0; row-- {
		sb.WriteString(fmt.Sprintf("%d ", row+1))
		for col := 0; col < size; col++ {
			index := row*size + col
			var code uint8
			if index < len(occupancy) {
				code = occupancy[index]
			}

			switch {
			case code == CodeLight:
				sb.WriteString("L ")
			case code == CodeDark:
				sb.WriteString("D ")
			case marked[index]:
				sb.WriteString("* ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", row+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
