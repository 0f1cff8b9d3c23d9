package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner. Gradient when the terminal supports
// it, plain rules otherwise.
func PrintBanner(w io.Writer, version string, colors bool) {
	lines := []string{
		"                           _                 ",
		"  _____  ___ __   ___ _ __| |_ _ __ ___  ___ ",
		" / _ \\ \\/ / '_ \\ / _ \\ '__| __| '__/ _ \\/ _ \\",
		"|  __/>  <| |_) |  __/ |  | |_| | |  __/  __/",
		" \\___/_/\\_\\ .__/ \\___|_|   \\__|_|  \\___|\\___|",
		"          |_|                                ",
	}
	shades := []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8"}

	fmt.Fprintln(w)
	if colors {
		p := termenv.ColorProfile()
		for i, line := range lines {
			fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(shades[i])))
		}
	} else {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintf(w, "  decision-tree conversations for Ollama · %s\n\n", version)
}
