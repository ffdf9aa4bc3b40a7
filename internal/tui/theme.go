package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette helpers. The TUI must stay readable on both light and dark
// terminal backgrounds, so everything routes through AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAxisFg     lipgloss.TerminalColor = ac("240", "245")
	colorFlashErrBg lipgloss.TerminalColor = ac("196", "160")
	colorPanelEdge  lipgloss.TerminalColor = ac("250", "243")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleAxis() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAxisFg)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
}

func styleFlashError() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorFlashErrBg).Foreground(ac("255", "255")).Bold(true)
}

func stylePanelBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorPanelEdge).
		PaddingLeft(1)
}

// applyTheme forces the background assumption when the config says so;
// "auto" defers to termenv's detection.
func applyTheme(pref string) {
	switch pref {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// tintStyle renders timeline glyphs in a character's display color. Hex
// colors degrade gracefully on low-color terminals via lipgloss.
func tintStyle(hex string) lipgloss.Style {
	if hex == "" {
		return styleMuted()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
