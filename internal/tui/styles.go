// Package tui holds the terminal presentation pieces: the banner, the lipgloss
// style set, and the markdown renderer for expert replies. Styling is decided
// once from config and capability detection; nothing here is globally mutable.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Styles is the palette for session output, mirroring the roles the terminal
// shows: system notices, questions, option menus, expert replies, errors.
type Styles struct {
	System     lipgloss.Style
	Header     lipgloss.Style
	Question   lipgloss.Style
	OptionID   lipgloss.Style
	OptionText lipgloss.Style
	Expert     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles builds the palette for w. With enabled false, all styles render
// as plain text.
func NewStyles(w io.Writer, enabled bool) Styles {
	var r *lipgloss.Renderer
	if enabled {
		r = lipgloss.NewRenderer(w)
	} else {
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	}

	return Styles{
		System:     r.NewStyle().Foreground(lipgloss.Color("6")),
		Header:     r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Question:   r.NewStyle().Bold(true),
		OptionID:   r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		OptionText: r.NewStyle(),
		Expert:     r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:      r.NewStyle().Foreground(lipgloss.Color("1")),
		Success:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Help:       r.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

// ColorsEnabled decides whether to style output: colors are off when asked
// for explicitly and when stdout is not a terminal.
func ColorsEnabled(noColor bool) bool {
	if noColor {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
