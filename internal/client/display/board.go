package display

import (
	"io"
	"strings"
)

// RenderBoard writes an ASCII board with Light pieces in blue, Dark pieces
// in red and move targets in green
func RenderBoard(w io.Writer, asciiBoard string) {
	var sb strings.Builder

	for _, line := range strings.Split(asciiBoard, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		isFileLine := strings.HasPrefix(line, " ")

		for _, char := range line {
			switch {
			case char >= 'a' && char <= 'h' && isFileLine:
				sb.WriteString(Cyan + string(char) + Reset)
			case char == 'L':
				sb.WriteString(Blue + "L" + Reset)
			case char == 'D':
				sb.WriteString(Red + "D" + Reset)
			case char == '*':
				sb.WriteString(Green + "*" + Reset)
			case char >= '1' && char <= '8':
				sb.WriteString(Cyan + string(char) + Reset)
			default:
				sb.WriteRune(char)
			}
		}
		sb.WriteByte('\n')
	}

	io.WriteString(w, sb.String())
}

// ColorForSide returns a colored side name for "light" or "dark"
func ColorForSide(side string) string {
	switch side {
	case "light":
		return Blue + "Light" + Reset
	case "dark":
		return Red + "Dark" + Reset
	default:
		return side
	}
}
