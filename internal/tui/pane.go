package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines. Split-pane rendering via lipgloss.JoinHorizontal stays stable only
// when both panes are rectangular.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

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
			if width <= 1 {
				ln = xansi.Cut(ln, 0, width)
			} else {
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

// truncate shortens plain (non-ANSI) text to max columns with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
