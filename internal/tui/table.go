package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const maxColWidth = 25

// renderTable renders columns and rows in the compact query-results style.
// At most maxRows rows are shown; maxRows <= 0 shows all.
func renderTable(columns []string, rows [][]string, maxRows int) []string {
	if len(columns) == 0 {
		return nil
	}

	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = len([]rune(col))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len([]rune(cell)) > colWidths[i] {
				colWidths[i] = len([]rune(cell))
			}
		}
	}
	for i := range colWidths {
		if colWidths[i] > maxColWidth {
			colWidths[i] = maxColWidth
		}
	}

	var lines []string

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)
	var headerCells []string
	for i, col := range columns {
		headerCells = append(headerCells, headerStyle.Render(padOrTruncate(col, colWidths[i])))
	}
	lines = append(lines, "  "+strings.Join(headerCells, " │ "))

	var sepParts []string
	for _, w := range colWidths {
		sepParts = append(sepParts, strings.Repeat("─", w))
	}
	sepStyle := lipgloss.NewStyle().Foreground(ColorGray)
	lines = append(lines, "  "+sepStyle.Render(strings.Join(sepParts, "─┼─")))

	displayRows := len(rows)
	if maxRows > 0 && displayRows > maxRows {
		displayRows = maxRows
	}

	rowStyle := lipgloss.NewStyle().Foreground(ColorWhite)
	for _, row := range rows[:displayRows] {
		var cells []string
		for j, cell := range row {
			if j < len(colWidths) {
				cells = append(cells, padOrTruncate(cell, colWidths[j]))
			}
		}
		lines = append(lines, "  "+rowStyle.Render(strings.Join(cells, " │ ")))
	}

	if len(rows) > displayRows {
		moreStyle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
		lines = append(lines, "  "+moreStyle.Render(fmt.Sprintf("... and %d more rows", len(rows)-displayRows)))
	}

	return lines
}

func padOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

// RenderTable renders a result table as a single string for non-interactive output
func RenderTable(columns []string, rows [][]string, maxRows int) string {
	return strings.Join(renderTable(columns, rows, maxRows), "\n")
}
