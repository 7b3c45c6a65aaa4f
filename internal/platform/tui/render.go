package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// pieceNames are the palette labels shown under the board.
var pieceNames = map[core.Kind]string{
	core.KindHorizontal:   "horizontal",
	core.KindVertical:     "vertical",
	core.KindCurve:        "curve",
	core.KindCurveInvert:  "curve invert",
	core.KindCurveInvertY: "curve invert Y",
	core.KindCurveY:       "curve Y",
}

// render draws the whole screen: HUD, board, palette, status and help.
func (m Model) render() string {
	theme := GetTheme()
	var b strings.Builder

	b.WriteString(m.renderHUD(theme))
	b.WriteString("\n")
	b.WriteString(theme.BoardBorder.Render(m.renderBoard(theme)))
	b.WriteString("\n")
	b.WriteString(m.renderPalette(theme))
	b.WriteString("\n\n")

	if m.status != "" {
		style := theme.StatusOK
		if m.statusErr {
			style = theme.StatusError
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))

	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, b.String())
	}
	return b.String()
}

// renderHUD renders the title line with board facts.
func (m Model) renderHUD(theme PipesTheme) string {
	sep := theme.HUDSeparator.Render(" | ")

	parts := []string{
		theme.HUDTitle.Render("PIPES"),
		theme.HUDValue.Render(fmt.Sprintf("%dx%d", m.grid.Rows, m.grid.Cols)),
		theme.HUDValue.Render(fmt.Sprintf("Pieces %d", m.grid.Count())),
	}
	if d, ok := m.grid.StartDirection(); ok {
		parts = append(parts, theme.HUDValue.Render("Water "+d.String()))
	}
	if m.slot != "" {
		parts = append(parts, theme.HUDValue.Render("Slot "+m.slot))
	}
	return strings.Join(parts, sep)
}

// renderBoard renders one three-column box per cell.
func (m Model) renderBoard(theme PipesTheme) string {
	wet := make(map[int]bool)
	if m.outcome != nil {
		for _, i := range m.outcome.Path[:m.revealedCount()] {
			wet[i] = true
		}
	}

	var b strings.Builder
	for r := 0; r < m.grid.Rows; r++ {
		if r > 0 {
			b.WriteString("\n")
		}
		for c := 0; c < m.grid.Cols; c++ {
			pos := core.P(r, c)
			i := m.grid.Index(pos)
			cell := m.grid.Cells[i]

			style := cellStyle(theme, cell, wet[i])
			if pos == m.cursor {
				style = theme.Cursor.Inherit(style)
			}
			b.WriteString(style.Render(" " + string(core.Glyph(cell)) + " "))
		}
	}
	return b.String()
}

// revealedCount clamps the animation counter to the path length.
func (m Model) revealedCount() int {
	if m.outcome == nil {
		return 0
	}
	if !m.animating || m.revealed > len(m.outcome.Path) {
		return len(m.outcome.Path)
	}
	return m.revealed
}

func cellStyle(theme PipesTheme, cell *core.Cell, wet bool) lipgloss.Style {
	switch {
	case cell == nil:
		return theme.Empty
	case cell.Invalid:
		return theme.Invalid
	case wet:
		return theme.Water
	case cell.Kind == core.KindSourceSink && cell.IsStart:
		return theme.Source
	case cell.Kind == core.KindSourceSink:
		return theme.Sink
	default:
		return theme.Piece
	}
}

// renderPalette lists the placeable pieces with the selected one highlighted.
func (m Model) renderPalette(theme PipesTheme) string {
	items := make([]string, len(m.palette))
	for i, k := range m.palette {
		label := fmt.Sprintf("%d %c %s", i+1, core.Glyph(core.NewPiece(k)), pieceNames[k])
		if i == m.piece {
			items[i] = theme.PaletteActive.Render("[" + label + "]")
		} else {
			items[i] = theme.PaletteItem.Render(" " + label + " ")
		}
	}
	return strings.Join(items, " ")
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
