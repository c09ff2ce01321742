package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	w := m.width
	if w < 40 {
		w = 40
	}

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")

	switch m.mode {
	case modeScanning:
		s.WriteString(fmt.Sprintf("\n  %s Scanning…\n", m.spinner.View()))
	case modeCleaning:
		s.WriteString(fmt.Sprintf("\n  %s Deleting selected items…\n", m.spinner.View()))
	case modeCategories:
		s.WriteString(m.renderCategories())
	case modeItems:
		s.WriteString(m.renderItems())
	case modeLarge:
		s.WriteString(m.renderLarge())
	case modeConfirm:
		s.WriteString(m.renderConfirm())
	case modeDone:
		s.WriteString(m.renderDone())
	}

	if m.err != nil {
		s.WriteString("\n" + ui.ErrorStyle.Render("  "+ui.IconCross+" "+m.err.Error()+" — try again") + "\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := ui.TitleStyle.Render("  " + ui.IconDiamond + " WinSweep")

	var volLine string
	if m.vol.TotalBytes > 0 {
		label := m.vol.MountPoint
		if m.vol.Label != "" {
			label += " (" + m.vol.Label + ")"
		}
		volLine = lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(fmt.Sprintf(
			"  %s  %s free of %s  %s used",
			label,
			ui.FormatSize(int64(m.vol.FreeBytes)),
			ui.FormatSize(int64(m.vol.TotalBytes)),
			ui.FormatPercent(m.vol.UsedPercent()),
		))
	} else {
		volLine = ui.DimStyle.Render("  volume information unavailable")
	}

	var selLine string
	if m.sel != nil {
		selLine = ui.DimStyle.Render(fmt.Sprintf(
			"  selected: %s in %d entries",
			ui.FormatSize(m.sel.TotalReclaimableBytes()), m.sel.EntryCount(),
		))
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, title, volLine, selLine)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Width(w - 2).
		Render(inner)
}

// ─── Category list ───────────────────────────────────────────────────────────

func (m Model) renderCategories() string {
	if len(m.cats) == 0 {
		return ui.DimStyle.Render("  nothing scanned yet")
	}

	var lines []string
	for i, cat := range m.cats {
		checkbox := "[ ]"
		if m.sel != nil && m.sel.IsCategorySelected(cat.ID) {
			checkbox = "[" + ui.IconCheck + "]"
		}
		line := fmt.Sprintf(" %s %s  %-34s %10s  %6d files",
			cursorMark(i == m.catCursor), checkbox, cat.Title,
			ui.FormatSize(cat.SizeBytes), cat.FileCount)
		if reclaim := m.partialNote(cat.ID); reclaim != "" {
			line += "  " + ui.DimStyle.Render(reclaim)
		}
		if i == m.catCursor {
			line = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render(line)
		} else if cat.SizeBytes == 0 {
			line = ui.DimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// partialNote annotates categories whose per-path overrides diverge from
// the plain checkbox state.
func (m Model) partialNote(id string) string {
	if m.sel == nil {
		return ""
	}
	reclaim := m.sel.CategoryReclaimableBytes(id)
	selected := m.sel.IsCategorySelected(id)
	if selected || reclaim > 0 {
		return "→ " + ui.FormatSize(reclaim)
	}
	return ""
}

// ─── Item list ───────────────────────────────────────────────────────────────

func (m Model) renderItems() string {
	header := ui.TitleStyle.Render("  " + m.itemsTitle)
	if len(m.items.Items) == 0 {
		return header + "\n" + ui.DimStyle.Render("  (no matching items)")
	}

	var lines []string
	lines = append(lines, header)
	lo, hi := m.offset, m.offset+m.listRows()
	if hi > len(m.items.Items) {
		hi = len(m.items.Items)
	}
	for i := lo; i < hi; i++ {
		item := m.items.Items[i]
		checkbox := "[ ]"
		if m.sel.IsSelected(m.itemsFor, item.Path) {
			checkbox = "[" + ui.IconCheck + "]"
		}
		line := fmt.Sprintf(" %s %s %10s  %s",
			cursorMark(i == m.itemCursor), checkbox,
			ui.FormatSize(item.SizeBytes), item.Path)
		if i == m.itemCursor {
			line = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render(line)
		}
		lines = append(lines, line)
	}
	if hi < len(m.items.Items) {
		lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("  … %d more below", len(m.items.Items)-hi)))
	} else if m.items.HasMore {
		lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("  … more than %d items, largest shown", len(m.items.Items))))
	}
	return strings.Join(lines, "\n")
}

// ─── Large items ─────────────────────────────────────────────────────────────

func (m Model) renderLarge() string {
	header := ui.TitleStyle.Render("  Large files & folders")
	if len(m.large) == 0 {
		return header + "\n" + ui.DimStyle.Render("  (nothing above the threshold)")
	}

	var lines []string
	lines = append(lines, header)
	lo, hi := m.offset, m.offset+m.listRows()
	if hi > len(m.large) {
		hi = len(m.large)
	}
	for i := lo; i < hi; i++ {
		item := m.large[i]
		checkbox := "[ ]"
		if m.sel.IsSelected(item.CategoryID, item.Path) {
			checkbox = "[" + ui.IconCheck + "]"
		}
		marker := " "
		if item.IsDir {
			marker = "/"
		}
		line := fmt.Sprintf(" %s %s %10s  %s%s",
			cursorMark(i == m.largeCursor), checkbox,
			ui.FormatSize(item.SizeBytes), item.Path, marker)
		if item.Suspicious {
			line += "  " + ui.WarnStyle.Render("suspicious")
		}
		if item.CategoryID != "" {
			line += "  " + ui.DimStyle.Render("in "+item.CategoryID)
		}
		if i == m.largeCursor {
			line = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render(line)
		}
		lines = append(lines, line)
	}
	if hi < len(m.large) {
		lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("  … %d more below", len(m.large)-hi)))
	}
	return strings.Join(lines, "\n")
}

// ─── Confirm & result ────────────────────────────────────────────────────────

func (m Model) renderConfirm() string {
	total := ui.FormatSize(m.sel.TotalReclaimableBytes())
	return fmt.Sprintf("\n  %s\n\n  %s\n",
		ui.WarnStyle.Render(fmt.Sprintf("Permanently delete %s across %d entries?", total, m.sel.EntryCount())),
		ui.DimStyle.Render("This cannot be undone. Enter confirms, any other key cancels."))
}

func (m Model) renderDone() string {
	var s strings.Builder
	s.WriteString("\n  " + ui.SuccessStyle.Render(fmt.Sprintf(
		"%s Freed %s (%d items)", ui.IconCheck,
		ui.FormatSize(m.result.DeletedBytes), m.result.DeletedCount)) + "\n")
	if n := len(m.result.Failed); n > 0 {
		s.WriteString("  " + ui.WarnStyle.Render(fmt.Sprintf("%d items could not be deleted:", n)) + "\n")
		show := m.result.Failed
		if len(show) > 10 {
			show = show[:10]
		}
		for _, f := range show {
			s.WriteString(ui.DimStyle.Render(fmt.Sprintf("    %s %s — %s", ui.IconCross, f.Path, f.Message)) + "\n")
		}
		if len(m.result.Failed) > 10 {
			s.WriteString(ui.DimStyle.Render(fmt.Sprintf("    … and %d more", len(m.result.Failed)-10)) + "\n")
		}
	}
	s.WriteString("\n  " + ui.DimStyle.Render("any key rescans, q quits"))
	return s.String()
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	var keys string
	switch m.mode {
	case modeCategories:
		keys = "space toggle " + ui.IconDot + " enter items " + ui.IconDot + " L large files " + ui.IconDot + " c clean " + ui.IconDot + " r rescan " + ui.IconDot + " q quit"
	case modeItems:
		keys = "space include/exclude " + ui.IconDot + " o reveal " + ui.IconDot + " esc back"
	case modeLarge:
		keys = "space toggle " + ui.IconDot + " o reveal " + ui.IconDot + " c clean " + ui.IconDot + " esc back"
	case modeConfirm:
		keys = "enter delete " + ui.IconDot + " esc cancel"
	default:
		keys = "ctrl+c quit"
	}
	return ui.DimStyle.Render("  " + keys)
}

// listRows is how many list entries fit between header and footer.
func (m Model) listRows() int {
	rows := m.height - 9
	if rows < 5 {
		rows = 5
	}
	return rows
}

// scrollTo keeps cursor inside the visible window starting at offset.
func scrollTo(cursor, offset, rows int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+rows {
		return cursor - rows + 1
	}
	return offset
}

func cursorMark(active bool) string {
	if active {
		return ui.IconChevron
	}
	return " "
}
