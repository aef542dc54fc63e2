package editor

import (
	"strings"

	"richedit/pkg/richdoc"
)

type IntentKind int

const (
	Unsupported IntentKind = iota
	InsertText
	InsertFromPaste
	InsertParagraph
	InsertLineBreak
	DeleteBackward
	DeleteForward
	DeleteByCut
	HistoryUndo
	HistoryRedo
	FormatBold
	FormatItalic
	FormatUnderline
	FormatStrikethrough
	FormatSuperscript
	FormatSubscript
)

var intentNames = map[IntentKind]string{
	Unsupported:         "unsupported",
	InsertText:          "insertText",
	InsertFromPaste:     "insertFromPaste",
	InsertParagraph:     "insertParagraph",
	InsertLineBreak:     "insertLineBreak",
	DeleteBackward:      "deleteContentBackward",
	DeleteForward:       "deleteContentForward",
	DeleteByCut:         "deleteByCut",
	HistoryUndo:         "historyUndo",
	HistoryRedo:         "historyRedo",
	FormatBold:          "formatBold",
	FormatItalic:        "formatItalic",
	FormatUnderline:     "formatUnderline",
	FormatStrikethrough: "formatStrikeThrough",
	FormatSuperscript:   "formatSuperscript",
	FormatSubscript:     "formatSubscript",
}

// inputTypes maps host input-type names onto intents. Word and line deletes
// remove a single unit, the same as a character delete.
var inputTypes = map[string]IntentKind{
	"inserttext":             InsertText,
	"insertfrompaste":        InsertFromPaste,
	"insertparagraph":        InsertParagraph,
	"insertlinebreak":        InsertLineBreak,
	"deletecontentbackward":  DeleteBackward,
	"deletewordbackward":     DeleteBackward,
	"deletehardlinebackward": DeleteBackward,
	"deletesoftlinebackward": DeleteBackward,
	"deletecontentforward":   DeleteForward,
	"deletewordforward":      DeleteForward,
	"deletehardlineforward":  DeleteForward,
	"deletesoftlineforward":  DeleteForward,
	"deletebycut":            DeleteByCut,
	"historyundo":            HistoryUndo,
	"historyredo":            HistoryRedo,
	"formatbold":             FormatBold,
	"formatitalic":           FormatItalic,
	"formatunderline":        FormatUnderline,
	"formatstrikethrough":    FormatStrikethrough,
	"formatsuperscript":      FormatSuperscript,
	"formatsubscript":        FormatSubscript,
}

// ParseInputType classifies a host input-type name. Names outside the
// supported set, such as list or alignment formatting, map to Unsupported.
func ParseInputType(name string) IntentKind {
	if k, ok := inputTypes[strings.ToLower(name)]; ok {
		return k
	}
	return Unsupported
}

func (k IntentKind) String() string {
	if s, ok := intentNames[k]; ok {
		return s
	}
	return "unsupported"
}

// StyleTag reports the tag a format intent toggles.
func (k IntentKind) StyleTag() (richdoc.StyleTag, bool) {
	switch k {
	case FormatBold:
		return richdoc.Bold, true
	case FormatItalic:
		return richdoc.Italic, true
	case FormatUnderline:
		return richdoc.Underline, true
	case FormatStrikethrough:
		return richdoc.Strikethrough, true
	case FormatSuperscript:
		return richdoc.Superscript, true
	case FormatSubscript:
		return richdoc.Subscript, true
	}
	return 0, false
}

// Intent is one classified edit together with the selection it was made
// under. Anchor and Focus are offsets into the document before the edit.
type Intent struct {
	Kind   IntentKind
	Anchor int
	Focus  int
	Text   string
}

func (in Intent) Collapsed() bool {
	return in.Anchor == in.Focus
}

// DefaultLineBreakToken replaces line breaks in inserted and pasted text.
const DefaultLineBreakToken = " "

// NormalizeLineBreaks replaces every CRLF, LF and CR in text with token.
func NormalizeLineBreaks(text, token string) string {
	return strings.NewReplacer("\r\n", token, "\n", token, "\r", token).Replace(text)
}
