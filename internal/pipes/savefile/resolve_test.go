package savefile

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

func TestResolveBuildsGrid(t *testing.T) {
	cfg := ConfigurationGrid{
		Rows: 1,
		Cols: 2,
		Grid: []*RawCell{
			{Type: "startEnd", Connections: []string{"right"}, IsStart: true},
			{Type: "curveY", Connections: []string{"up", "left"}, InvalidConnection: true},
		},
	}

	g, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if g.Rows != 1 || g.Cols != 2 {
		t.Errorf("expected 1x2, got %dx%d", g.Rows, g.Cols)
	}
	if c := g.Cells[0]; c.Kind != core.KindSourceSink || !c.IsStart || !c.Has(core.DirRight) {
		t.Errorf("unexpected start %+v", c)
	}
	if c := g.Cells[1]; c.Kind != core.KindCurveY || !c.Invalid {
		t.Errorf("unexpected curve %+v", c)
	}
}

func TestResolveRejects(t *testing.T) {
	piece := func(kind string, conns ...string) *RawCell {
		return &RawCell{Type: kind, Connections: conns}
	}

	tests := []struct {
		name  string
		cfg   ConfigurationGrid
		code  Code
		index int
	}{
		{"zero rows", ConfigurationGrid{Rows: 0, Cols: 1}, CodeBadDimensions, -1},
		{"fractional cols", ConfigurationGrid{Rows: 1, Cols: 2.5}, CodeBadDimensions, -1},
		{"negative rows", ConfigurationGrid{Rows: -2, Cols: 2}, CodeBadDimensions, -1},
		{"too large", ConfigurationGrid{Rows: 1000, Cols: 1000}, CodeBadDimensions, -1},
		{"short grid", ConfigurationGrid{Rows: 2, Cols: 2, Grid: make([]*RawCell, 3)}, CodeSizeMismatch, -1},
		{"long grid", ConfigurationGrid{Rows: 1, Cols: 1, Grid: make([]*RawCell, 2)}, CodeSizeMismatch, -1},
		{
			"unknown kind",
			ConfigurationGrid{Rows: 1, Cols: 2, Grid: []*RawCell{nil, piece("tee", "up")}},
			CodeUnknownKind, 1,
		},
		{
			"unknown direction",
			ConfigurationGrid{Rows: 1, Cols: 1, Grid: []*RawCell{piece("vertical", "up", "north")}},
			CodeUnknownDirection, 0,
		},
		{
			"upper-case direction",
			ConfigurationGrid{Rows: 1, Cols: 1, Grid: []*RawCell{piece("vertical", "UP", "DOWN")}},
			CodeUnknownDirection, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Resolve(tt.cfg)
			if g != nil {
				t.Error("expected no grid on failure")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Code != tt.code || ve.Index != tt.index {
				t.Errorf("got %s at %d, want %s at %d", ve.Code, ve.Index, tt.code, tt.index)
			}
		})
	}
}

func TestResolveErrorMessages(t *testing.T) {
	_, err := Resolve(ConfigurationGrid{Rows: 2, Cols: 2.5})
	if err == nil || err.Error() != "[BAD_DIMENSIONS] rows and cols must be positive integers, got 2x2.5" {
		t.Errorf("unexpected error %v", err)
	}

	_, err = Resolve(ConfigurationGrid{Rows: 2, Cols: 2, Grid: make([]*RawCell, 3)})
	if err == nil || err.Error() != "[SIZE_MISMATCH] grid has 3 slots, rows*cols requires 4" {
		t.Errorf("unexpected error %v", err)
	}
}
