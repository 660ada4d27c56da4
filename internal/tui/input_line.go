package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine renders an inline edit buffer as exactly one visual line of width w.
func renderInputLine(w int, inputView string) string {
	if w < 10 {
		w = 10
	}

	// A newline in the view would wrap the row and look like inserted lines while typing.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		w,
		lipgloss.Left,
		inputView,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > w {
		// Terminate ANSI styling so the cut doesn't bleed into the next cell.
		line = xansi.Cut(line, 0, w) + "\x1b[0m"
	}
	return line
}
