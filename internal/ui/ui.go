// Package ui holds the shared terminal styling vocabulary: color tokens,
// icons, and size formatting used by every command and the TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.Color("39")  // blue
	ColorSuccess = lipgloss.Color("42")  // green
	ColorWarning = lipgloss.Color("214") // orange
	ColorDanger  = lipgloss.Color("196") // red
	ColorText    = lipgloss.Color("252")
	ColorTextDim = lipgloss.Color("245")
	ColorMuted   = lipgloss.Color("241")
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond = "◆"
	IconChevron = "›"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconDot     = "·"
)

// ─── Shared styles ───────────────────────────────────────────────────────────

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	DimStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorDanger)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
)

// FormatSize renders a byte count for humans (binary units).
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatPercent renders a 0-100 percentage with one decimal.
func FormatPercent(pct float64) string {
	return humanize.FtoaWithDigits(pct, 1) + "%"
}
