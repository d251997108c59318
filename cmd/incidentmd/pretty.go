package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// prettyWordWrap is the column at which terminal output wraps.
const prettyWordWrap = 80

// renderPretty writes doc to w styled for a terminal.
func renderPretty(w io.Writer, doc string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(prettyWordWrap),
	)
	if err != nil {
		return fmt.Errorf("creating terminal renderer: %w", err)
	}

	out, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("rendering for terminal: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
