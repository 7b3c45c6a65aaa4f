package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// PipesTheme contains all configurable visual styles for the board.
type PipesTheme struct {
	// Cell styles
	Piece   lipgloss.Style
	Source  lipgloss.Style
	Sink    lipgloss.Style
	Empty   lipgloss.Style
	Water   lipgloss.Style // Cells the water has reached
	Invalid lipgloss.Style // The mis-connected cell
	Cursor  lipgloss.Style

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style

	// Palette styles
	PaletteItem   lipgloss.Style
	PaletteActive lipgloss.Style

	// Status line
	StatusOK    lipgloss.Style
	StatusError lipgloss.Style

	BoardBorder lipgloss.Style
}

// DefaultPipesTheme returns the default visual theme.
func DefaultPipesTheme() PipesTheme {
	return PipesTheme{
		Piece:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Source:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),  // Bright cyan
		Sink:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),  // Lime green
		Empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),            // Dark gray
		Water:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),  // Blue
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
		Cursor:  lipgloss.NewStyle().Reverse(true),

		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		PaletteItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		PaletteActive: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),

		StatusOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		BoardBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// MonochromePipesTheme returns a grayscale theme.
// Water and invalid cells stay distinguishable through weight and underline.
func MonochromePipesTheme() PipesTheme {
	theme := DefaultPipesTheme()
	theme.Source = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.Sink = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.Water = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.Invalid = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Underline(true)
	theme.PaletteActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.StatusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	theme.StatusError = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Underline(true)
	return theme
}

// ThemeByName returns a built-in theme. Unknown names report false.
func ThemeByName(name string) (PipesTheme, bool) {
	switch name {
	case "", "default":
		return DefaultPipesTheme(), true
	case "monochrome", "mono":
		return MonochromePipesTheme(), true
	default:
		return DefaultPipesTheme(), false
	}
}

// Global theme variable (can be changed at runtime)
var pipesTheme = DefaultPipesTheme()

// SetTheme sets the global theme.
func SetTheme(theme PipesTheme) {
	pipesTheme = theme
}

// GetTheme returns the current global theme.
func GetTheme() PipesTheme {
	return pipesTheme
}
