package ui

import (
	"github.com/charmbracelet/lipgloss"

	"richedit/pkg/richdoc"
)

type Layout struct {
	Width    int
	GutterW  int
	ContentW int
	PageW    int
}

// ComputeLayout splits a terminal of width w into gutter and content
// columns. The content column is clamped to the theme's bounds, so the page
// may be wider than w on very narrow terminals.
func ComputeLayout(w int, theme Theme) Layout {
	gutterW := theme.GutterWidth
	contentW := w - theme.PageMargin - gutterW
	if contentW > theme.MaxContentWidth {
		contentW = theme.MaxContentWidth
	}
	if contentW < theme.MinContentWidth {
		contentW = theme.MinContentWidth
	}
	pageW := gutterW + contentW + theme.PageMargin
	return Layout{
		Width:    max(w, pageW),
		GutterW:  gutterW,
		ContentW: contentW,
		PageW:    pageW,
	}
}

// Line is one rendered block, labelled with its kind in the gutter.
type Line struct {
	Kind richdoc.BlockKind
	Text string
}

// DrawShell frames the document lines between a title bar and a status bar.
// The page's top border carries the accent color.
func DrawShell(theme Theme, layout Layout, title string, lines []Line, status string) string {
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		gutter := theme.Gutter.Width(layout.GutterW).Render(string(l.Kind))
		content := theme.Content.Width(layout.ContentW).Render(l.Text)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, gutter, content))
	}
	page := theme.Page.BorderTopForeground(theme.Accent).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.TopBar.Width(layout.PageW).Render(title),
		page,
		theme.StatusBar.Width(layout.PageW).Render(status),
	)
}
