package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

func TestSavesModelSelectAndDelete(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "pipes.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	body, err := savefile.Encode(lineBoard())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"one", "two"} {
		if _, _, err := store.Put(name, body); err != nil {
			t.Fatalf("Put() failed: %v", err)
		}
	}

	m := NewSavesModel(store, 100, 30)
	if len(m.saves) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(m.saves))
	}
	first := m.saves[0].Name

	next, _ := m.Update(runeKey('d'))
	m = next.(SavesModel)
	if len(m.saves) != 1 {
		t.Fatalf("expected 1 save after delete, got %d", len(m.saves))
	}
	if m.saves[0].Name == first {
		t.Errorf("deleted the wrong save")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SavesModel)
	if m.Chosen() != m.saves[0].Name {
		t.Errorf("expected %q to be chosen, got %q", m.saves[0].Name, m.Chosen())
	}
	if cmd == nil {
		t.Error("choosing a save should quit the browser")
	}
}

func TestSavesModelEmpty(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "pipes.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := NewSavesModel(store, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SavesModel)
	if m.Chosen() != "" {
		t.Error("nothing should be chosen from an empty list")
	}
	if m.View() == "" {
		t.Error("empty browser should still render")
	}
}
