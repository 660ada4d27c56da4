package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall, so lipgloss.JoinHorizontal keeps the list and preview panes aligned.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch width {
			case 0:
				ln = ""
			case 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// scrollWindow returns the [start, end) line range of height lines that keeps
// line focus visible, preferring to keep the previous start.
func scrollWindow(total, height, focus, prevStart int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := prevStart
	if focus < start {
		start = focus
	}
	if focus >= start+height {
		start = focus - height + 1
	}
	start = min(max(start, 0), total-height)
	return start, start + height
}
