// Package render draws a document as terminal text, one line per block,
// with the caret and selection marked.
package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"richedit/internal/platform"
	"richedit/pkg/richdoc"
)

const (
	CaretGlyph      = "|"
	SuperscriptMark = "^"
	SubscriptMark   = "_"
)

type Preview struct {
	base      lipgloss.Style
	caret     lipgloss.Style
	selection lipgloss.Style
}

// NewPreview builds a preview whose styles are bound to r, so the color
// profile of r decides which escape sequences are emitted.
func NewPreview(r *lipgloss.Renderer) *Preview {
	return &Preview{
		base:      r.NewStyle(),
		caret:     r.NewStyle().Blink(true).Bold(true),
		selection: r.NewStyle().Reverse(true),
	}
}

func (p *Preview) runStyle(styles richdoc.StyleSet, selected bool) lipgloss.Style {
	st := p.base
	if selected {
		st = p.selection
	}
	return st.
		Bold(styles.Has(richdoc.Bold)).
		Italic(styles.Has(richdoc.Italic)).
		Underline(styles.Has(richdoc.Underline)).
		Strikethrough(styles.Has(richdoc.Strikethrough)).
		Faint(styles.Has(richdoc.Superscript) || styles.Has(richdoc.Subscript))
}

func decorate(styles richdoc.StyleSet, text string) string {
	switch {
	case styles.Has(richdoc.Superscript):
		return SuperscriptMark + text
	case styles.Has(richdoc.Subscript):
		return SubscriptMark + text
	}
	return text
}

// Lines renders every block of doc. A collapsed selection is drawn as
// CaretGlyph at the focus offset; a caret on a separator is drawn at the end
// of the block before it.
func (p *Preview) Lines(doc *richdoc.Document, sel platform.Selection) []string {
	first, last := min(sel.Anchor, sel.Focus), max(sel.Anchor, sel.Focus)
	caret := -1
	if sel.Collapsed() {
		caret = sel.Focus
	}
	proj := richdoc.NewProjection(doc)
	lines := make([]string, 0, proj.BlockCount())
	for bi := 0; bi < proj.BlockCount(); bi++ {
		var sb strings.Builder
		for ri, run := range doc.Blocks[bi].Runs {
			off, err := proj.Offset(richdoc.Location{Block: bi, Run: ri})
			if err != nil {
				break
			}
			text := []rune(run.Text)
			cuts := []int{0, len(text)}
			for _, c := range []int{first, last, caret} {
				if c > off && c < off+len(text) {
					cuts = append(cuts, c-off)
				}
			}
			slices.Sort(cuts)
			cuts = slices.Compact(cuts)
			for i := 0; i+1 < len(cuts); i++ {
				a, z := cuts[i], cuts[i+1]
				if off+a == caret {
					sb.WriteString(p.caret.Render(CaretGlyph))
					caret = -1
				}
				selected := off+a >= first && off+z <= last && first < last
				sb.WriteString(p.runStyle(run.Styles, selected).Render(decorate(run.Styles, string(text[a:z]))))
			}
		}
		if caret == proj.BlockEnd(bi) {
			sb.WriteString(p.caret.Render(CaretGlyph))
			caret = -1
		}
		lines = append(lines, sb.String())
	}
	return lines
}
