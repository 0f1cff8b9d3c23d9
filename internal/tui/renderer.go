package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns the markdown renderer for expert replies. Without
// colors it degrades to the identity function, so piped output stays clean.
func NewRenderer(colors bool) func(string) (string, error) {
	if !colors {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown, err
		}
		return strings.TrimSpace(out), nil
	}
}
