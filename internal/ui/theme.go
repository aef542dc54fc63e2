package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	TopBar    lipgloss.Style
	Gutter    lipgloss.Style
	Content   lipgloss.Style
	Page      lipgloss.Style
	StatusBar lipgloss.Style
	Accent    lipgloss.Color

	GutterWidth     int
	PageMargin      int
	MinContentWidth int
	MaxContentWidth int
}

func DefaultTheme(r *lipgloss.Renderer) Theme {
	accent := lipgloss.Color("#2B579A")
	return Theme{
		TopBar:          r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1),
		Gutter:          r.NewStyle().Faint(true).Align(lipgloss.Right).PaddingRight(1),
		Content:         r.NewStyle(),
		Page:            r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#B2BFD0")).Padding(0, 1),
		StatusBar:       r.NewStyle().Foreground(lipgloss.Color("#455A64")),
		Accent:          accent,
		GutterWidth:     11,
		PageMargin:      4,
		MinContentWidth: 20,
		MaxContentWidth: 100,
	}
}
