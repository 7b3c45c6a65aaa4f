package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// DefaultFlowRate is the number of path cells revealed per second.
const DefaultFlowRate = 12

// Options configures a board session.
type Options struct {
	Grid       *core.Grid     // Board to edit; must not be nil
	Store      *storage.Store // Optional slot storage
	Slot       string         // Slot written on save when Store is set
	ExportPath string         // Optional file written on save
	FlowRate   int            // Cells per second for the water animation
	Logger     *log.Logger
}

// Model is the Bubble Tea model for editing and running a board.
type Model struct {
	grid       *core.Grid
	cursor     core.Pos
	palette    []core.Kind
	piece      int // Index into palette
	outcome    *core.Outcome
	revealed   int // Path cells drawn as water so far
	animating  bool
	store      *storage.Store
	slot       string
	exportPath string
	flowRate   int
	logger     *log.Logger
	keys       BoardKeyMap
	help       help.Model
	status     string
	statusErr  bool
	width      int
	height     int
	quitting   bool
}

// NewModel creates a new board model.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rate := opts.FlowRate
	if rate <= 0 {
		rate = DefaultFlowRate
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		grid:       opts.Grid,
		palette:    core.Palette(),
		store:      opts.Store,
		slot:       opts.Slot,
		exportPath: opts.ExportPath,
		flowRate:   rate,
		logger:     logger,
		keys:       DefaultBoardKeyMap(),
		help:       h,
	}
}

// Grid returns the board being edited.
func (m Model) Grid() *core.Grid {
	return m.grid
}

// Outcome returns the result of the last run, or nil.
func (m Model) Outcome() *core.Outcome {
	return m.outcome
}

// Cursor returns the selected board position.
func (m Model) Cursor() core.Pos {
	return m.cursor
}

// SelectedPiece returns the palette piece placed by the place key.
func (m Model) SelectedPiece() core.Kind {
	return m.palette[m.piece]
}

// Status returns the last status line and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FlowTickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(core.DirUp)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(core.DirDown)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(core.DirLeft)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(core.DirRight)

	case key.Matches(msg, m.keys.NextPiece):
		m.piece = (m.piece + 1) % len(m.palette)
	case key.Matches(msg, m.keys.PrevPiece):
		m.piece = (m.piece + len(m.palette) - 1) % len(m.palette)

	case key.Matches(msg, m.keys.Place):
		m.placePiece()
	case key.Matches(msg, m.keys.Clear):
		m.clearCell()
	case key.Matches(msg, m.keys.Rotate):
		m.rotateSource()
	case key.Matches(msg, m.keys.MoveStart):
		m.moveEndpoint(true)
	case key.Matches(msg, m.keys.MoveEnd):
		m.moveEndpoint(false)

	case key.Matches(msg, m.keys.Run):
		return m.run()
	case key.Matches(msg, m.keys.Save):
		m.save()

	default:
		if slot, ok := paletteSlot(msg); ok && slot < len(m.palette) {
			m.piece = slot
		}
	}

	return m, nil
}

// handleTick reveals the next cell of the water path.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.animating || m.outcome == nil {
		return m, nil
	}
	m.revealed++
	if m.revealed >= len(m.outcome.Path) {
		m.revealed = len(m.outcome.Path)
		m.animating = false
		return m, nil
	}
	return m, tickCmd(m.flowRate)
}

func (m *Model) moveCursor(d core.Dir) {
	next := m.cursor.Step(d)
	if m.grid.InBounds(next) {
		m.cursor = next
	}
}

// isEndpoint reports whether the cursor sits on the source or the sink.
func (m *Model) isEndpoint() bool {
	c := m.grid.At(m.cursor)
	return c != nil && c.Kind == core.KindSourceSink
}

func (m *Model) placePiece() {
	if m.isEndpoint() {
		m.setError("the source and the sink cannot be replaced")
		return
	}
	kind := m.palette[m.piece]
	if err := m.grid.PlacePiece(m.grid.Index(m.cursor), kind.Tag()); err != nil {
		m.setError(err.Error())
		return
	}
	m.edited()
}

func (m *Model) clearCell() {
	if m.isEndpoint() {
		m.setError("the source and the sink cannot be removed")
		return
	}
	if err := m.grid.Set(m.grid.Index(m.cursor), nil); err != nil {
		m.setError(err.Error())
		return
	}
	m.edited()
}

// rotateSource turns the source clockwise when the cursor is on it.
func (m *Model) rotateSource() {
	c := m.grid.At(m.cursor)
	if c == nil || c.Kind != core.KindSourceSink || !c.IsStart {
		m.setError("move the cursor onto the source to turn it")
		return
	}
	d, _ := m.grid.StartDirection()
	next := core.AllDirs()[(int(d)+1)%len(core.AllDirs())]
	if err := m.grid.PlaceSource(m.grid.Index(m.cursor), next); err != nil {
		m.setError(err.Error())
		return
	}
	m.edited()
	m.setStatus(fmt.Sprintf("water now starts %s", next))
}

// moveEndpoint relocates the source (start true) or the sink to the cursor.
// The piece under the cursor is replaced; the other endpoint cannot be.
func (m *Model) moveEndpoint(start bool) {
	name := "sink"
	if start {
		name = "source"
	}
	if c := m.grid.At(m.cursor); c != nil && c.Kind == core.KindSourceSink {
		if c.IsStart == start {
			m.setStatus(fmt.Sprintf("the %s is already here", name))
		} else {
			m.setError(fmt.Sprintf("the %s cannot be placed on the other endpoint", name))
		}
		return
	}

	i := m.grid.Index(m.cursor)
	var err error
	if start {
		d, ok := m.grid.StartDirection()
		if !ok {
			d = core.DirRight
		}
		err = m.grid.PlaceSource(i, d)
	} else {
		err = m.grid.PlaceSink(i)
	}
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.edited()
	m.setStatus(fmt.Sprintf("%s moved to %s", name, m.cursor))
}

// edited drops a stale outcome after the board changes.
func (m *Model) edited() {
	m.outcome = nil
	m.animating = false
	m.revealed = 0
	m.status = ""
	m.statusErr = false
}

// run clears previous marks, traces the water and starts the animation.
func (m Model) run() (tea.Model, tea.Cmd) {
	m.grid.ClearInvalidFlags()
	out := core.Simulate(m.grid)
	m.outcome = &out
	m.revealed = 0
	m.animating = len(out.Path) > 0

	m.logger.Debug("water run", "outcome", out.String(), "steps", out.Steps)
	if out.Delivered() {
		m.setStatus(describeOutcome(m.grid, out))
	} else {
		m.setError(describeOutcome(m.grid, out))
	}

	if m.store != nil && m.slot != "" {
		if _, err := m.store.RecordResult(m.slot, out); err != nil && !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("cannot record result", "slot", m.slot, "err", err)
		}
	}

	if !m.animating {
		return m, nil
	}
	return m, tickCmd(m.flowRate)
}

// save writes the board to the slot and the export file, whichever are set.
func (m *Model) save() {
	if (m.store == nil || m.slot == "") && m.exportPath == "" {
		m.setError("nowhere to save: no slot or export file configured")
		return
	}

	var parts []string
	if m.store != nil && m.slot != "" {
		body, err := savefile.Encode(m.grid)
		if err != nil {
			m.setError(err.Error())
			return
		}
		save, changed, err := m.store.Put(m.slot, body)
		if err != nil {
			m.logger.Error("save failed", "slot", m.slot, "err", err)
			m.setError(err.Error())
			return
		}
		if changed {
			parts = append(parts, fmt.Sprintf("slot %q (%s)", save.Name, save.Digest[:12]))
		} else {
			parts = append(parts, fmt.Sprintf("slot %q unchanged", save.Name))
		}
	}
	if m.exportPath != "" {
		if err := savefile.WriteFile(m.exportPath, m.grid); err != nil {
			m.logger.Error("export failed", "path", m.exportPath, "err", err)
			m.setError(err.Error())
			return
		}
		parts = append(parts, m.exportPath)
	}

	m.setStatus("saved to " + joinParts(parts))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// describeOutcome renders a run result for the status line.
func describeOutcome(g *core.Grid, out core.Outcome) string {
	switch out.Kind {
	case core.OutcomeDelivered:
		return fmt.Sprintf("Water reached the sink in %d steps!", out.Steps)
	case core.OutcomeBlocked:
		return fmt.Sprintf("Water blocked at %s", g.Pos(out.At))
	case core.OutcomeOutOfBounds:
		return fmt.Sprintf("Water spilled off the board at %s", g.Pos(out.At))
	case core.OutcomeCycle:
		return fmt.Sprintf("Water loops forever through %s", g.Pos(out.At))
	default:
		return "The board needs exactly one source and one sink"
	}
}

func joinParts(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + " and " + parts[1]
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Run starts the Bubble Tea program for a board and returns the final board.
func Run(opts Options) (*core.Grid, error) {
	if opts.Grid == nil {
		return nil, errors.New("tui: no board to play")
	}

	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok {
		return m.grid, nil
	}
	return opts.Grid, nil
}
