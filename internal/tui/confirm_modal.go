package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// confirmState is a pending delete. It stores ids rather than a closure because
// the owner is a value that Bubble Tea copies between updates.
type confirmState struct {
	title   string
	body    string
	modelID string
	propID  string
	focus   confirmModalFocus
}

func modalWidth(screenW int) int {
	return min(max(screenW-8, 30), 64)
}

func renderConfirmModal(screenW int, c confirmState) string {
	w := modalWidth(screenW)
	bodyW := w - 4

	// No nested borders: some terminals show background artifacts inside a colored modal.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render("Delete")
	cancel := btnBase.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render("Delete")
	} else {
		cancel = btnActive.Render("Cancel")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	title := lipgloss.NewStyle().Bold(true).Width(bodyW).Render(c.title)
	body := lipgloss.NewStyle().Width(bodyW).Render(c.body)
	help := styleMuted().Width(bodyW).Render("y: delete   tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{title, "", body, "", controls, "", help}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(0, 1).
		Width(w - 2).
		Render(content)
}
