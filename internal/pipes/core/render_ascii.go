package core

import (
	"fmt"
	"strings"
)

// portGlyphs maps a port bitmask (up=1, right=2, down=4, left=8) to a box-drawing rune.
var portGlyphs = [16]rune{
	'·', '╵', '╶', '└',
	'╷', '│', '┌', '├',
	'╴', '┘', '─', '┴',
	'┐', '┤', '┬', '┼',
}

// Glyph returns the rune used to draw a cell. Empty slots are drawn as '.'.
// Pieces are drawn from their actual ports, so loaded boards with unusual
// connection lists still render faithfully.
func Glyph(c *Cell) rune {
	if c == nil {
		return '.'
	}
	if c.Kind == KindSourceSink {
		switch {
		case c.IsStart:
			return 'S'
		case c.IsEnd:
			return 'E'
		}
	}
	mask := 0
	for _, d := range c.Connections {
		switch d {
		case DirUp:
			mask |= 1
		case DirRight:
			mask |= 2
		case DirDown:
			mask |= 4
		case DirLeft:
			mask |= 8
		}
	}
	return portGlyphs[mask]
}

// RenderASCII draws the board as text for debugging, tests and the CLI.
//
// Format:
//   - Header line with the outcome (when given) and the start direction
//   - One line per row, two columns per cell: glyph then marker
//   - Markers: '!' invalid cell, '~' cell on the water path, ' ' otherwise
func RenderASCII(g *Grid, out *Outcome) string {
	var sb strings.Builder

	onPath := make(map[int]bool)
	if out != nil {
		for _, i := range out.Path {
			onPath[i] = true
		}
		sb.WriteString(fmt.Sprintf("Outcome: %s | Steps: %d", out, out.Steps))
	} else {
		sb.WriteString(fmt.Sprintf("Board: %dx%d | Pieces: %d", g.Rows, g.Cols, g.Count()))
	}
	if d, ok := g.StartDirection(); ok {
		sb.WriteString(fmt.Sprintf(" | Water: %s", d))
	}
	sb.WriteString("\n")

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			i := g.Index(P(r, c))
			var cell *Cell
			if i < len(g.Cells) {
				cell = g.Cells[i]
			}
			sb.WriteRune(Glyph(cell))
			switch {
			case cell != nil && cell.Invalid:
				sb.WriteRune('!')
			case onPath[i]:
				sb.WriteRune('~')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
