package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
	"github.com/Zuo-Peng/chat-unwrapped/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatResultLine(r, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] MM-DD HH:MM  sender  [kind]
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	// "2024-01-27 09:15" -> "01-27 09:15"
	when := r.Ts
	if len(when) >= 16 {
		when = when[5:16]
	}

	sender := r.Sender
	if sender == "" {
		sender = "system"
	}
	senderMax := max(width-2-11-1-10, 0)
	if runewidth.StringWidth(sender) > senderMax {
		sender = runewidth.Truncate(sender, senderMax, "…")
	}

	line1 := fmt.Sprintf("%s %s", when, styleSender.Render(sender))
	if r.Kind != index.KindText {
		line1 += " " + styleKind.Render(r.Kind)
	}
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "").Replace(r.Snippet)
	snippetMax := max(width-4, 0)
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
