package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kartoza/kartoza-sql-lab/internal/converter"
)

// ========================================
// Brand Colors - Kartoza standard palette
// ========================================

var (
	ColorOrange   = lipgloss.Color("#DDA036") // Primary/Active
	ColorBlue     = lipgloss.Color("#569FC6") // Secondary/Links
	ColorGray     = lipgloss.Color("#9A9EA0") // Inactive/Subtle
	ColorWhite    = lipgloss.Color("#FFFFFF") // Text
	ColorDarkGray = lipgloss.Color("#3A3A3A") // Background
	ColorRed      = lipgloss.Color("#E95420") // Error/Active
	ColorGreen    = lipgloss.Color("#4CAF50") // Success
	ColorCyan     = lipgloss.Color("#00BCD4") // Info/SQL
)

// HeaderWidth is the standard width for the header
const HeaderWidth = 64

// RenderHeader renders the application header
//
// Format:
//
//	Kartoza SQL Lab - Page Title
//	Natural Language to SQL Templates
//	────────────────────────────────────────────────────────────────
//	DB: myservice | Queries: 12 | Delay: 800ms
//	────────────────────────────────────────────────────────────────
func RenderHeader(pageTitle, status string) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(HeaderWidth)

	title := center.Bold(true).Foreground(ColorOrange).
		Render(fmt.Sprintf("Kartoza SQL Lab - %s", pageTitle))
	motto := center.Italic(true).Foreground(ColorGray).
		Render("Natural Language to SQL Templates")
	divider := center.Foreground(ColorGray).
		Render(strings.Repeat("─", HeaderWidth))
	statusLine := center.Foreground(ColorWhite).Render(status)

	return lipgloss.JoinVertical(lipgloss.Center, title, motto, divider, statusLine, divider)
}

// complexityBadge renders the complexity label as a colored pill
func complexityBadge(c converter.Complexity) string {
	color := ColorGreen
	switch c {
	case converter.ComplexityHard:
		color = ColorRed
	case converter.ComplexityMedium:
		color = ColorBlue
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(color).
		Padding(0, 1).
		Render(string(c))
}

func sqlPanel(sql string, width int) string {
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCyan).
		Foreground(ColorCyan).
		Padding(0, 1).
		Width(width).
		Render(sql)
}
