package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// SavesKeyMap defines the key bindings for the saves browser.
type SavesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SavesModel is the Bubble Tea model for the saves browser.
type SavesModel struct {
	store    *storage.Store
	saves    []storage.Save
	table    table.Model
	help     help.Model
	keys     SavesKeyMap
	width    int
	height   int
	chosen   string
	status   string
	quitting bool
}

// NewSavesModel creates a new saves browser.
func NewSavesModel(store *storage.Store, width, height int) SavesModel {
	h := help.New()
	h.ShowAll = false

	m := SavesModel{
		store:  store,
		keys:   DefaultSavesKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadSaves()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *SavesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Digest", Width: 12},
		{Title: "Size", Width: 7},
		{Title: "Runs", Width: 7},
		{Title: "Updated", Width: 14},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSaves reloads the slot list from storage.
func (m *SavesModel) loadSaves() {
	if m.store == nil {
		m.saves = nil
		m.updateTableRows()
		return
	}

	saves, err := m.store.List()
	if err != nil {
		m.saves = nil
		m.status = err.Error()
	} else {
		m.saves = saves
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current saves.
func (m *SavesModel) updateTableRows() {
	rows := make([]table.Row, len(m.saves))
	for i, s := range m.saves {
		runs := "-"
		if stats, err := m.store.Stats(s.Name); err == nil && stats.Runs > 0 {
			runs = fmt.Sprintf("%d/%d", stats.Delivered, stats.Runs)
		}
		rows[i] = table.Row{
			s.Name,
			s.Digest[:12],
			fmt.Sprintf("%dB", s.Size),
			runs,
			s.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the saves model.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the saves browser.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if name, ok := m.selected(); ok {
				m.chosen = name
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if name, ok := m.selected(); ok {
				if err := m.store.Delete(name); err != nil {
					m.status = err.Error()
				} else {
					m.status = fmt.Sprintf("deleted %q", name)
				}
				m.loadSaves()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selected returns the slot name under the table cursor.
func (m SavesModel) selected() (string, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.saves) {
		return "", false
	}
	return m.saves[i].Name, true
}

// Chosen returns the slot picked with the select key, if any.
func (m SavesModel) Chosen() string {
	return m.chosen
}

// View renders the saves browser.
func (m SavesModel) View() string {
	if m.quitting || m.chosen != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("SAVED BOARDS", m.width)))
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(m.help.View(m.keys), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m SavesModel) renderTableContent() string {
	if len(m.saves) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No saved boards yet.\nPress s while playing to save one!")
	}

	return m.table.View()
}

// RunSaves runs the saves browser.
// Returns the chosen slot name, or "" if the user left without choosing.
func RunSaves(store *storage.Store, width, height int) (string, error) {
	model := NewSavesModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(SavesModel)
	if !ok {
		return "", nil
	}

	return m.Chosen(), nil
}
