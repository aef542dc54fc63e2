package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"richedit/pkg/richdoc"
)

func newTestSession(t *testing.T, texts ...string) *Session {
	t.Helper()
	return NewSession(richdoc.NewDocument(texts...), Options{Logger: zaptest.NewLogger(t)})
}

func mustApply(t *testing.T, s *Session, in Intent) Result {
	t.Helper()
	res, err := s.Apply(in)
	if err != nil {
		t.Fatalf("Apply(%v): %v", in.Kind, err)
	}
	return res
}

func TestSessionInsertTextMovesCaret(t *testing.T) {
	s := newTestSession(t, "ab")
	res := mustApply(t, s, Intent{Kind: InsertText, Anchor: 1, Focus: 1, Text: "X"})
	if res.Anchor != 2 || res.Focus != 2 {
		t.Fatalf("expected caret 2, got %d/%d", res.Anchor, res.Focus)
	}
	if !res.Changed {
		t.Fatalf("expected Changed")
	}
	want := richdoc.Element("div", richdoc.Element("p", richdoc.Text("aXb")))
	if diff := cmp.Diff(want, res.Tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionInsertReplacesSelection(t *testing.T) {
	s := newTestSession(t, "hello world")
	res := mustApply(t, s, Intent{Kind: InsertText, Anchor: 11, Focus: 6, Text: "there"})
	if got := s.Document().Text(); got != "hello there" {
		t.Fatalf("unexpected text %q", got)
	}
	if res.Focus != 11 || res.Anchor != 11 {
		t.Fatalf("expected caret 11, got %d/%d", res.Anchor, res.Focus)
	}
}

func TestSessionPasteNormalizesLineBreaks(t *testing.T) {
	s := newTestSession(t)
	res := mustApply(t, s, Intent{Kind: InsertFromPaste, Text: "a\r\nb\nc"})
	if got := s.Document().Text(); got != "a b c" {
		t.Fatalf("unexpected text %q", got)
	}
	if res.Focus != 5 {
		t.Fatalf("expected caret 5, got %d", res.Focus)
	}

	s = NewSession(richdoc.NewDocument(), Options{LineBreakToken: "/"})
	mustApply(t, s, Intent{Kind: InsertFromPaste, Text: "x\ny"})
	if got := s.Document().Text(); got != "x/y" {
		t.Fatalf("custom token ignored: %q", got)
	}
}

func TestSessionInsertParagraph(t *testing.T) {
	s := newTestSession(t, "abcd")
	res := mustApply(t, s, Intent{Kind: InsertParagraph, Anchor: 2, Focus: 2})
	if res.Focus != 3 {
		t.Fatalf("expected caret 3, got %d", res.Focus)
	}
	if diff := cmp.Diff([]string{"ab", "cd"}, blockTexts(s.Document())); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionEmptyParagraphRoundTrip(t *testing.T) {
	s := newTestSession(t, "a")
	res := mustApply(t, s, Intent{Kind: InsertParagraph, Anchor: 1, Focus: 1})
	empty := res.Tree.Children[1]
	if empty.Class != richdoc.EmptyBlockClass || len(empty.Children) != 1 || empty.Children[0].Tag != "br" {
		t.Fatalf("empty block not serialized with placeholder: %#v", empty)
	}
	back, err := richdoc.Parse(res.Tree)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.Document(), back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionDeletes(t *testing.T) {
	s := newTestSession(t, "foo", "bar")
	res := mustApply(t, s, Intent{Kind: DeleteBackward, Anchor: 4, Focus: 4})
	if res.Focus != 3 || s.Document().Text() != "foobar" {
		t.Fatalf("backspace over separator: caret %d text %q", res.Focus, s.Document().Text())
	}
	res = mustApply(t, s, Intent{Kind: DeleteForward, Anchor: 0, Focus: 0})
	if res.Focus != 0 || s.Document().Text() != "oobar" {
		t.Fatalf("forward delete: caret %d text %q", res.Focus, s.Document().Text())
	}
	res = mustApply(t, s, Intent{Kind: DeleteForward, Anchor: 4, Focus: 1})
	if res.Focus != 1 || s.Document().Text() != "or" {
		t.Fatalf("range delete: caret %d text %q", res.Focus, s.Document().Text())
	}
	res = mustApply(t, s, Intent{Kind: DeleteByCut, Anchor: 0, Focus: 2})
	if res.Focus != 0 || s.Document().Len() != 0 {
		t.Fatalf("cut: caret %d text %q", res.Focus, s.Document().Text())
	}
}

func TestSessionFormatKeepsSelection(t *testing.T) {
	s := newTestSession(t, "hello world")
	res := mustApply(t, s, Intent{Kind: FormatBold, Anchor: 5, Focus: 0})
	if res.Anchor != 5 || res.Focus != 0 {
		t.Fatalf("selection moved: %d/%d", res.Anchor, res.Focus)
	}
	want := richdoc.Element("div", richdoc.Element("p",
		richdoc.Element("b", richdoc.Text("hello")),
		richdoc.Text(" world"),
	))
	if diff := cmp.Diff(want, res.Tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	mustApply(t, s, Intent{Kind: FormatBold, Anchor: 0, Focus: 5})
	if diff := cmp.Diff(richdoc.NewDocument("hello world"), s.Document()); diff != "" {
		t.Fatalf("second toggle did not restore (-want +got):\n%s", diff)
	}
}

func TestSessionIgnoredIntents(t *testing.T) {
	s := newTestSession(t, "ab")
	for _, k := range []IntentKind{Unsupported, InsertLineBreak, HistoryUndo, HistoryRedo} {
		res := mustApply(t, s, Intent{Kind: k, Anchor: 2, Focus: 0, Text: "x"})
		if res.Changed || res.Anchor != 2 || res.Focus != 0 {
			t.Fatalf("%v: unexpected result %+v", k, res)
		}
		if diff := cmp.Diff(richdoc.Serialize(s.Document()), res.Tree); diff != "" {
			t.Fatalf("%v: tree mismatch (-want +got):\n%s", k, diff)
		}
	}
}

func TestSessionRejectsMalformedSelection(t *testing.T) {
	s := newTestSession(t, "ab")
	_, err := s.Apply(Intent{Kind: InsertText, Anchor: 0, Focus: 9, Text: "x"})
	if !errors.Is(err, ErrMalformedSelection) || !errors.Is(err, richdoc.ErrOutOfRange) {
		t.Fatalf("expected ErrMalformedSelection wrapping ErrOutOfRange, got %v", err)
	}
	if s.Document().Text() != "ab" {
		t.Fatalf("rejected intent changed the document")
	}
}

func TestSessionFailedEditIsAtomic(t *testing.T) {
	s := newTestSession(t, "abc")
	before := richdoc.Digest(s.Document())
	if _, err := s.Apply(Intent{Kind: InsertText, Anchor: 0, Focus: 2, Text: "\xff"}); !errors.Is(err, richdoc.ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
	if _, err := s.Apply(Intent{Kind: DeleteBackward}); !errors.Is(err, richdoc.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if richdoc.Digest(s.Document()) != before {
		t.Fatalf("failed edit changed the document")
	}
	mustApply(t, s, Intent{Kind: InsertText, Anchor: 3, Focus: 3, Text: "d"})
}

func TestSessionDetectsOutOfBandChanges(t *testing.T) {
	s := newTestSession(t, "ab")
	s.Document().Blocks[0].Runs[0].Text = "abcdef"
	if _, err := s.Apply(Intent{Kind: InsertText, Anchor: 5, Focus: 5, Text: "x"}); !errors.Is(err, ErrMalformedSelection) {
		t.Fatalf("expected ErrMalformedSelection, got %v", err)
	}
	s.Resync()
	mustApply(t, s, Intent{Kind: InsertText, Anchor: 5, Focus: 5, Text: "x"})
	if got := s.Document().Text(); got != "abcdexf" {
		t.Fatalf("unexpected text after resync: %q", got)
	}
}

func TestSessionSelectedText(t *testing.T) {
	s := newTestSession(t, "foo", "bar")
	got, err := s.SelectedText(5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "oo\nb" {
		t.Fatalf("unexpected selected text %q", got)
	}
}

func TestSessionLogsAppliedIntents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSession(richdoc.NewDocument("ab"), Options{Logger: zap.New(core)})
	mustApply(t, s, Intent{Kind: InsertText, Anchor: 2, Focus: 2, Text: "c"})
	if _, err := s.Apply(Intent{Kind: DeleteForward, Anchor: 3, Focus: 3}); err == nil {
		t.Fatalf("expected delete at end to fail")
	}
	applied := logs.FilterMessage("applied intent").All()
	if len(applied) != 1 {
		t.Fatalf("expected one applied entry, got %d", len(applied))
	}
	if got := applied[0].ContextMap()["intent"]; got != "insertText" {
		t.Fatalf("unexpected intent field %v", got)
	}
	if logs.FilterMessage("edit rejected").FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected one rejection warning")
	}
}

func TestParseInputType(t *testing.T) {
	cases := map[string]IntentKind{
		"insertText":            InsertText,
		"insertFromPaste":       InsertFromPaste,
		"insertParagraph":       InsertParagraph,
		"deleteContentBackward": DeleteBackward,
		"deleteWordBackward":    DeleteBackward,
		"deleteSoftLineForward": DeleteForward,
		"deleteByCut":           DeleteByCut,
		"formatBold":            FormatBold,
		"formatStrikeThrough":   FormatStrikethrough,
		"formatSubscript":       FormatSubscript,
		"formatJustifyCenter":   Unsupported,
		"insertOrderedList":     Unsupported,
		"":                      Unsupported,
	}
	for name, want := range cases {
		if got := ParseInputType(name); got != want {
			t.Fatalf("ParseInputType(%q) = %v, want %v", name, got, want)
		}
	}
	if tag, ok := FormatSuperscript.StyleTag(); !ok || tag != richdoc.Superscript {
		t.Fatalf("unexpected tag for formatSuperscript: %v %v", tag, ok)
	}
	if _, ok := InsertText.StyleTag(); ok {
		t.Fatalf("insertText should not carry a style tag")
	}
}

func TestSessionInsertTextNormalizesLineBreaks(t *testing.T) {
	s := newTestSession(t, "ab", "cd")
	res := mustApply(t, s, Intent{Kind: InsertText, Anchor: 1, Focus: 1, Text: "x\ny\r\n"})
	if diff := cmp.Diff([]string{"ax y b", "cd"}, blockTexts(s.Document())); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
	if res.Focus != 5 {
		t.Fatalf("expected caret 5, got %d", res.Focus)
	}
	text, err := s.SelectedText(0, s.Document().Len())
	if err != nil {
		t.Fatal(err)
	}
	if text != "ax y b\ncd" {
		t.Fatalf("only the separator should read back as a newline, got %q", text)
	}
}

func TestSessionLogsBlockMerges(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSession(richdoc.NewDocument("ab", "cd"), Options{Logger: zap.New(core)})
	mustApply(t, s, Intent{Kind: DeleteForward, Anchor: 0, Focus: 0})
	mustApply(t, s, Intent{Kind: DeleteBackward, Anchor: 2, Focus: 2})
	applied := logs.FilterMessage("applied intent").All()
	if len(applied) != 2 {
		t.Fatalf("expected two applied entries, got %d", len(applied))
	}
	if applied[0].ContextMap()["merged"] != false || applied[1].ContextMap()["merged"] != true {
		t.Fatalf("unexpected merged fields: %v, %v", applied[0].ContextMap()["merged"], applied[1].ContextMap()["merged"])
	}
	if got := s.Document().Text(); got != "bcd" {
		t.Fatalf("unexpected text %q", got)
	}
}
