package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press feeds keys to the model and returns the updated model and last command.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

// lineBoard is a 1x3 board with the source left and the sink right.
func lineBoard() *core.Grid {
	return core.NewBoard(1, 3, core.P(0, 0), core.DirRight, core.P(0, 2))
}

func TestModelPlaceAndRun(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	if c := m.Grid().Cells[1]; c == nil || c.Kind != core.KindHorizontal {
		t.Fatalf("expected horizontal at slot 1, got %+v", c)
	}

	m, cmd := press(t, m, runeKey('r'))
	out := m.Outcome()
	if out == nil || !out.Delivered() {
		t.Fatalf("expected delivered, got %v", out)
	}
	if cmd == nil {
		t.Fatal("expected the water animation to start")
	}
	if status, isErr := m.Status(); isErr || !strings.Contains(status, "2 steps") {
		t.Errorf("unexpected status %q (error=%v)", status, isErr)
	}

	// Drain the animation
	for i := 0; i < 10 && cmd != nil; i++ {
		var next tea.Model
		next, cmd = m.Update(FlowTickMsg{})
		m = next.(Model)
	}
	if cmd != nil {
		t.Error("animation should stop after the path is revealed")
	}
	if m.revealedCount() != len(out.Path) {
		t.Errorf("expected %d revealed cells, got %d", len(out.Path), m.revealedCount())
	}
}

func TestModelRunClearsOldMarks(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})

	// Vertical in the middle blocks the source
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('2'), tea.KeyMsg{Type: tea.KeyEnter}, runeKey('r'))
	if out := m.Outcome(); out == nil || out.Kind != core.OutcomeBlocked {
		t.Fatalf("expected blocked, got %v", out)
	}
	if !m.Grid().Cells[0].Invalid {
		t.Fatal("expected the source to be marked invalid")
	}
	if _, isErr := m.Status(); !isErr {
		t.Error("blocked run should report an error status")
	}

	// Fix the board and run again
	m, _ = press(t, m, runeKey('1'), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Outcome() != nil {
		t.Error("editing should drop the stale outcome")
	}
	m, _ = press(t, m, runeKey('r'))
	if !m.Outcome().Delivered() {
		t.Errorf("expected delivered after fix, got %s", m.Outcome())
	}
	if m.Grid().Cells[0].Invalid {
		t.Error("run should clear marks from the previous run")
	}
}

func TestModelCursorStaysOnBoard(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor() != core.P(0, 0) {
		t.Errorf("cursor left the board: %s", m.Cursor())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if m.Cursor() != core.P(0, 2) {
		t.Errorf("expected cursor at (0,2), got %s", m.Cursor())
	}
}

func TestModelPalette(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})
	palette := core.Palette()

	m, _ = press(t, m, runeKey('3'))
	if m.SelectedPiece() != palette[2] {
		t.Errorf("expected %s, got %s", palette[2], m.SelectedPiece())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.SelectedPiece() != palette[3] {
		t.Errorf("expected %s, got %s", palette[3], m.SelectedPiece())
	}
	m, _ = press(t, m, runeKey('1'), tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.SelectedPiece() != palette[len(palette)-1] {
		t.Errorf("expected wrap to last piece, got %s", m.SelectedPiece())
	}
	m, _ = press(t, m, runeKey('9'))
	if m.SelectedPiece() != palette[len(palette)-1] {
		t.Error("digit past the palette should be ignored")
	}
}

func TestModelProtectsEndpoints(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if c := m.Grid().Cells[0]; c == nil || !c.IsStart {
		t.Fatal("source was replaced")
	}
	if _, isErr := m.Status(); !isErr {
		t.Error("expected an error status")
	}

	m, _ = press(t, m, runeKey('x'))
	if m.Grid().Cells[0] == nil {
		t.Fatal("source was removed")
	}
}

func TestModelRotateSource(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})

	m, _ = press(t, m, runeKey('o'))
	if d, _ := m.Grid().StartDirection(); d != core.DirDown {
		t.Errorf("expected source to turn down, got %s", d)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('o'))
	if _, isErr := m.Status(); !isErr {
		t.Error("turning a non-source cell should report an error")
	}
}

func TestModelMoveEndpoints(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})
	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	m, _ = press(t, m, right, runeKey('e'))
	if c := m.Grid().Cells[1]; c == nil || !c.IsEnd {
		t.Fatalf("expected the sink at slot 1, got %+v", c)
	}
	if m.Grid().Cells[2] != nil {
		t.Error("expected the old sink to be removed")
	}

	m, _ = press(t, m, runeKey('r'))
	if out := m.Outcome(); out == nil || !out.Delivered() {
		t.Errorf("expected delivered next to the source, got %v", out)
	}

	m, _ = press(t, m, right, runeKey('b'))
	if c := m.Grid().Cells[2]; c == nil || !c.IsStart {
		t.Fatalf("expected the source at slot 2, got %+v", c)
	}
	if m.Grid().Cells[0] != nil {
		t.Error("expected the old source to be removed")
	}
	if d, _ := m.Grid().StartDirection(); d != core.DirRight {
		t.Errorf("moving the source should keep its direction, got %s", d)
	}
	if m.Outcome() != nil {
		t.Error("expected the outcome to be dropped after an edit")
	}

	m, _ = press(t, m, left, runeKey('b'))
	if _, isErr := m.Status(); !isErr {
		t.Error("placing the source on the sink should report an error")
	}
	if c := m.Grid().Cells[1]; c == nil || !c.IsEnd {
		t.Fatal("sink was replaced by the source")
	}
	if _, _, ok := m.Grid().Endpoints(); !ok {
		t.Error("expected exactly one source and one sink")
	}
}

func TestModelSave(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "pipes.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	export := filepath.Join(dir, "gamePlay.json")

	m := NewModel(Options{Grid: lineBoard(), Store: store, Slot: "mine", ExportPath: export})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter}, runeKey('s'))
	if status, isErr := m.Status(); isErr {
		t.Fatalf("save failed: %s", status)
	}

	body, _, err := store.Get("mine")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	g, err := savefile.Load(string(body))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !g.Equal(m.Grid()) {
		t.Error("slot does not hold the edited board")
	}
	if _, err := os.Stat(export); err != nil {
		t.Errorf("export file missing: %v", err)
	}

	m, _ = press(t, m, runeKey('s'))
	if status, _ := m.Status(); !strings.Contains(status, "unchanged") {
		t.Errorf("expected unchanged status, got %q", status)
	}

	m, _ = press(t, m, runeKey('r'))
	stats, err := store.Stats("mine")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 1 || stats.Delivered != 1 {
		t.Errorf("expected one delivered run, got %+v", stats)
	}
}

func TestModelSaveWithoutTarget(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard()})
	m, _ = press(t, m, runeKey('s'))
	if _, isErr := m.Status(); !isErr {
		t.Error("expected an error when nothing is configured")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(Options{Grid: lineBoard(), Slot: "demo"})
	view := m.View()

	for _, want := range []string{"PIPES", "1x3", "Water right", "Slot demo", "horizontal"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, runeKey('q'))
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestDescribeOutcome(t *testing.T) {
	g := core.NewGrid(2, 2)
	tests := []struct {
		out  core.Outcome
		want string
	}{
		{core.Outcome{Kind: core.OutcomeDelivered, Steps: 3}, "3 steps"},
		{core.Outcome{Kind: core.OutcomeBlocked, At: 3}, "blocked at (1,1)"},
		{core.Outcome{Kind: core.OutcomeOutOfBounds, At: 1}, "off the board at (0,1)"},
		{core.Outcome{Kind: core.OutcomeCycle, At: 2}, "loops forever through (1,0)"},
		{core.Outcome{Kind: core.OutcomeNoPath, At: -1}, "exactly one source"},
	}
	for _, tt := range tests {
		if got := describeOutcome(g, tt.out); !strings.Contains(got, tt.want) {
			t.Errorf("describeOutcome(%s) = %q, want it to contain %q", tt.out, got, tt.want)
		}
	}
}

func TestThemeByName(t *testing.T) {
	if _, ok := ThemeByName("monochrome"); !ok {
		t.Error("monochrome theme should exist")
	}
	if _, ok := ThemeByName(""); !ok {
		t.Error("empty name should select the default theme")
	}
	if _, ok := ThemeByName("neon"); ok {
		t.Error("unknown theme should report false")
	}
}
