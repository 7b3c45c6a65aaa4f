package core_test

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

func TestRenderASCIIBoard(t *testing.T) {
	g := core.NewBoard(2, 3, core.P(0, 0), core.DirRight, core.P(1, 2))
	g.Cells[1] = core.NewPiece(core.KindHorizontal)
	g.Cells[2] = core.NewPiece(core.KindCurve)

	out := core.RenderASCII(g, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Board: 2x3") || !strings.Contains(lines[0], "Water: right") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "S ─ ┐ " {
		t.Errorf("row 0 = %q", lines[1])
	}
	if lines[2] != ". . E " {
		t.Errorf("row 1 = %q", lines[2])
	}
}

func TestRenderASCIIMarksPathAndInvalid(t *testing.T) {
	g := core.NewBoard(1, 4, core.P(0, 0), core.DirRight, core.P(0, 3))
	g.Cells[1] = core.NewPiece(core.KindHorizontal)
	g.Cells[2] = core.NewPiece(core.KindVertical)

	out := core.Simulate(g)
	text := core.RenderASCII(g, &out)

	if !strings.Contains(text, "Outcome: blocked at 1") {
		t.Errorf("expected outcome in header, got:\n%s", text)
	}
	if !strings.Contains(text, "S~─!│ E ") {
		t.Errorf("expected path and invalid markers, got:\n%s", text)
	}
}

func TestGlyphFollowsPorts(t *testing.T) {
	tests := []struct {
		cell *core.Cell
		want rune
	}{
		{nil, '.'},
		{core.NewPiece(core.KindVertical), '│'},
		{core.NewPiece(core.KindCurveInvert), '┌'},
		{core.NewPiece(core.KindCurveInvertY), '└'},
		{core.NewPiece(core.KindCurveY), '┘'},
		{core.NewSource(core.DirLeft), 'S'},
		{core.NewSink(), 'E'},
		{&core.Cell{Kind: core.KindHorizontal, Connections: core.AllDirs()}, '┼'},
	}

	for _, tt := range tests {
		if got := core.Glyph(tt.cell); got != tt.want {
			t.Errorf("Glyph(%+v) = %q, want %q", tt.cell, got, tt.want)
		}
	}
}
