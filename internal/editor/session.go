package editor

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"richedit/pkg/richdoc"
)

type Options struct {
	// Logger receives one debug entry per applied intent. Nil disables
	// logging.
	Logger *zap.Logger
	// LineBreakToken replaces line breaks in inserted and pasted text, which
	// would otherwise read back as block separators. Empty means
	// DefaultLineBreakToken.
	LineBreakToken string
}

// Result is what the host re-applies after an intent: the serialized tree
// and the selection to restore, both against the post-edit document.
type Result struct {
	Tree    *richdoc.Node
	Anchor  int
	Focus   int
	Changed bool
}

// Session couples one document with the edit intents of one editing
// surface. Intents must be applied one at a time.
type Session struct {
	engine *Engine
	log    *zap.Logger
	token  string
	digest [32]byte
}

func NewSession(doc *richdoc.Document, opts Options) *Session {
	s := &Session{engine: NewEngine(doc), log: opts.Logger, token: opts.LineBreakToken}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.token == "" {
		s.token = DefaultLineBreakToken
	}
	s.digest = richdoc.Digest(s.engine.Doc)
	return s
}

func (s *Session) Document() *richdoc.Document {
	return s.engine.Doc
}

func (s *Session) Tree() *richdoc.Node {
	return richdoc.Serialize(s.engine.Doc)
}

// Resync accepts the document as it is now, after changes made without the
// session. Offsets must be re-derived against it before the next Apply.
func (s *Session) Resync() {
	richdoc.Normalize(s.engine.Doc)
	s.digest = richdoc.Digest(s.engine.Doc)
}

func (s *Session) SelectedText(anchor, focus int) (string, error) {
	return s.engine.SelectedText(anchor, focus)
}

// Apply performs one intent. The edit runs on a copy of the document that
// replaces the original only when every step succeeds. Unsupported intents,
// line breaks and history intents change nothing and return the current
// tree with the selection unchanged.
func (s *Session) Apply(in Intent) (Result, error) {
	doc := s.engine.Doc
	if richdoc.Digest(doc) != s.digest {
		err := fmt.Errorf("%w: document changed outside the session", ErrMalformedSelection)
		s.log.Warn("edit rejected", zap.Stringer("intent", in.Kind), zap.Error(err))
		return Result{}, err
	}
	p := richdoc.NewProjection(doc)
	if _, err := p.Locate(in.Anchor); err != nil {
		return Result{}, s.reject(in, fmt.Errorf("%w: anchor: %w", ErrMalformedSelection, err))
	}
	if _, err := p.Locate(in.Focus); err != nil {
		return Result{}, s.reject(in, fmt.Errorf("%w: focus: %w", ErrMalformedSelection, err))
	}

	merged := false
	if in.Collapsed() {
		switch in.Kind {
		case DeleteBackward:
			merged = p.IsSeparator(in.Focus - 1)
		case DeleteForward:
			merged = p.IsSeparator(in.Focus)
		}
	}

	work := &Engine{Doc: richdoc.CloneDocument(doc)}
	anchor, focus, err := apply(work, in, s.token)
	if err != nil {
		return Result{}, s.reject(in, err)
	}

	*doc = *work.Doc
	digest := richdoc.Digest(doc)
	res := Result{
		Tree:    richdoc.Serialize(doc),
		Anchor:  anchor,
		Focus:   focus,
		Changed: digest != s.digest,
	}
	s.digest = digest
	s.log.Debug("applied intent",
		zap.Stringer("intent", in.Kind),
		zap.Int("anchor", in.Anchor),
		zap.Int("focus", in.Focus),
		zap.Int("caret", res.Focus),
		zap.Int("length", doc.Len()),
		zap.Bool("changed", res.Changed),
		zap.Bool("merged", merged),
	)
	return res, nil
}

func (s *Session) reject(in Intent, err error) error {
	s.log.Warn("edit rejected",
		zap.Stringer("intent", in.Kind),
		zap.Int("anchor", in.Anchor),
		zap.Int("focus", in.Focus),
		zap.Error(err),
	)
	return err
}

func apply(e *Engine, in Intent, token string) (int, int, error) {
	first, last := min(in.Anchor, in.Focus), max(in.Anchor, in.Focus)
	deleteSelection := func() error {
		if in.Collapsed() {
			return nil
		}
		return e.DeleteRange(first, last)
	}

	switch in.Kind {
	case InsertText, InsertFromPaste:
		text := NormalizeLineBreaks(in.Text, token)
		if err := deleteSelection(); err != nil {
			return 0, 0, err
		}
		if err := e.InsertText(first, text); err != nil {
			return 0, 0, err
		}
		caret := first + utf8.RuneCountInString(text)
		return caret, caret, nil
	case InsertParagraph:
		if err := deleteSelection(); err != nil {
			return 0, 0, err
		}
		if err := e.SplitParagraph(first); err != nil {
			return 0, 0, err
		}
		return first + 1, first + 1, nil
	case DeleteBackward:
		if !in.Collapsed() {
			if err := deleteSelection(); err != nil {
				return 0, 0, err
			}
			return first, first, nil
		}
		if err := e.DeleteBackward(in.Focus); err != nil {
			return 0, 0, err
		}
		return in.Focus - 1, in.Focus - 1, nil
	case DeleteForward:
		if !in.Collapsed() {
			if err := deleteSelection(); err != nil {
				return 0, 0, err
			}
			return first, first, nil
		}
		if err := e.DeleteForward(in.Focus); err != nil {
			return 0, 0, err
		}
		return in.Focus, in.Focus, nil
	case DeleteByCut:
		if err := deleteSelection(); err != nil {
			return 0, 0, err
		}
		return first, first, nil
	case FormatBold, FormatItalic, FormatUnderline, FormatStrikethrough, FormatSuperscript, FormatSubscript:
		tag, _ := in.Kind.StyleTag()
		if err := e.ToggleStyle(tag, in.Focus, in.Anchor); err != nil {
			return 0, 0, err
		}
		return in.Anchor, in.Focus, nil
	}
	return in.Anchor, in.Focus, nil
}
