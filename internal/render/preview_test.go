package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"

	"richedit/internal/platform"
	"richedit/pkg/richdoc"
)

func newTestPreview(profile termenv.Profile) *Preview {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return NewPreview(r)
}

func sampleDoc() *richdoc.Document {
	return &richdoc.Document{Blocks: []richdoc.Block{
		{Kind: richdoc.BlockKindParagraph, Runs: []richdoc.Run{
			{Text: "ab"},
			{Styles: richdoc.NewStyleSet(richdoc.Bold), Text: "cd"},
		}},
		{Kind: richdoc.BlockKindParagraph, Runs: []richdoc.Run{{}}},
		{Kind: richdoc.BlockKindParagraph, Runs: []richdoc.Run{
			{Text: "x"},
			{Styles: richdoc.NewStyleSet(richdoc.Superscript), Text: "2"},
		}},
	}}
}

func TestLinesPlaceCaret(t *testing.T) {
	p := newTestPreview(termenv.Ascii)
	cases := []struct {
		caret int
		want  []string
	}{
		{0, []string{"|abcd", "", "x^2"}},
		{3, []string{"abc|d", "", "x^2"}},
		{4, []string{"abcd|", "", "x^2"}},
		{5, []string{"abcd", "|", "x^2"}},
		{7, []string{"abcd", "", "x|^2"}},
		{8, []string{"abcd", "", "x^2|"}},
	}
	for _, tc := range cases {
		got := p.Lines(sampleDoc(), platform.Selection{Anchor: tc.caret, Focus: tc.caret})
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("caret %d (-want +got):\n%s", tc.caret, diff)
		}
	}
}

func TestLinesSelectionHidesCaret(t *testing.T) {
	p := newTestPreview(termenv.Ascii)
	got := p.Lines(sampleDoc(), platform.Selection{Anchor: 7, Focus: 1})
	want := []string{"abcd", "", "x^2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLinesEmitStylesWithColorProfile(t *testing.T) {
	p := newTestPreview(termenv.ANSI)
	lines := p.Lines(sampleDoc(), platform.Selection{Anchor: 0, Focus: 2})
	if !strings.Contains(lines[0], "\x1b[") {
		t.Fatalf("expected escape sequences, got %q", lines[0])
	}
	if !strings.Contains(lines[0], "cd") || !strings.Contains(lines[0], "ab") {
		t.Fatalf("text missing from %q", lines[0])
	}
}
