package editor

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"richedit/pkg/richdoc"
)

var (
	ErrMalformedSelection = errors.New("editor: selection cannot be resolved")
	ErrUnknownStyle       = errors.New("editor: unknown style tag")
)

// Engine applies edit operations to one document. Offsets passed to an
// operation are resolved against the document as it is before that
// operation. Every operation either fails without touching the document or
// succeeds and leaves every block normalized.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	Doc *richdoc.Document
}

// RunRef addresses a run by block and run index.
type RunRef struct {
	Block int
	Run   int
}

func NewEngine(doc *richdoc.Document) *Engine {
	if doc == nil {
		doc = richdoc.NewDocument()
	}
	richdoc.Normalize(doc)
	return &Engine{Doc: doc}
}

func (e *Engine) projection() *richdoc.Projection {
	return richdoc.NewProjection(e.Doc)
}

func (e *Engine) Len() int {
	return e.Doc.Len()
}

// InsertText splices text into the run at offset. Line breaks in text are
// kept as ordinary characters; callers that read the document back through
// Text or SelectedText normalize them first, as Session does.
func (e *Engine) InsertText(offset int, text string) error {
	if !utf8.ValidString(text) {
		return richdoc.ErrInvalidText
	}
	loc, err := e.projection().Locate(offset)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	block := &e.Doc.Blocks[loc.Block]
	run := &block.Runs[loc.Run]
	i := byteIndex(run.Text, loc.Pos)
	run.Text = run.Text[:i] + text + run.Text[i:]
	richdoc.NormalizeBlock(block)
	return nil
}

// DeleteRange removes the units between two offsets, given in either order.
// When the range crosses blocks, the blocks strictly inside it are dropped
// and the last block's remainder is merged into the first block.
func (e *Engine) DeleteRange(a, b int) error {
	first, last := min(a, b), max(a, b)
	p := e.projection()
	fl, err := p.Locate(first)
	if err != nil {
		return err
	}
	ll, err := p.Locate(last)
	if err != nil {
		return err
	}
	if first == last {
		return nil
	}

	doc := e.Doc
	head := &doc.Blocks[fl.Block]
	if fl.Block == ll.Block && fl.Run == ll.Run {
		run := &head.Runs[fl.Run]
		i, j := byteIndex(run.Text, fl.Pos), byteIndex(run.Text, ll.Pos)
		run.Text = run.Text[:i] + run.Text[j:]
		richdoc.NormalizeBlock(head)
		return nil
	}

	headRun := head.Runs[fl.Run]
	headRun.Text = headRun.Text[:byteIndex(headRun.Text, fl.Pos)]
	tail := doc.Blocks[ll.Block]
	tailRun := tail.Runs[ll.Run]
	tailRun.Text = tailRun.Text[byteIndex(tailRun.Text, ll.Pos):]

	runs := make([]richdoc.Run, 0, fl.Run+1+len(tail.Runs)-ll.Run)
	runs = append(runs, head.Runs[:fl.Run]...)
	runs = append(runs, headRun, tailRun)
	runs = append(runs, tail.Runs[ll.Run+1:]...)
	head.Runs = runs
	if ll.Block > fl.Block {
		doc.Blocks = slices.Delete(doc.Blocks, fl.Block+1, ll.Block+1)
	}
	richdoc.NormalizeBlock(&doc.Blocks[fl.Block])
	return nil
}

// DeleteBackward removes the unit before focus. When that unit is a
// separator the two blocks around it merge.
func (e *Engine) DeleteBackward(focus int) error {
	return e.DeleteRange(focus-1, focus)
}

func (e *Engine) DeleteForward(focus int) error {
	return e.DeleteRange(focus, focus+1)
}

// SplitParagraph replaces the block owning offset with two blocks of the
// same kind. The run under offset is cut in two, each half keeping its
// styles; the new separator sits at offset, so the caret moves to offset+1.
func (e *Engine) SplitParagraph(offset int) error {
	loc, err := e.projection().Locate(offset)
	if err != nil {
		return err
	}
	b := e.Doc.Blocks[loc.Block]
	run := b.Runs[loc.Run]
	i := byteIndex(run.Text, loc.Pos)

	headRuns := make([]richdoc.Run, 0, loc.Run+1)
	headRuns = append(headRuns, b.Runs[:loc.Run]...)
	headRuns = append(headRuns, richdoc.Run{Styles: run.Styles, Text: run.Text[:i]})

	tailRuns := make([]richdoc.Run, 0, len(b.Runs)-loc.Run)
	tailRuns = append(tailRuns, richdoc.Run{Styles: run.Styles, Text: run.Text[i:]})
	tailRuns = append(tailRuns, b.Runs[loc.Run+1:]...)

	first := richdoc.Block{Kind: b.Kind, Runs: headRuns}
	second := richdoc.Block{Kind: b.Kind, Runs: tailRuns}
	richdoc.NormalizeBlock(&first)
	richdoc.NormalizeBlock(&second)
	e.Doc.Blocks = slices.Replace(e.Doc.Blocks, loc.Block, loc.Block+1, first, second)
	return nil
}

// ToggleStyle adds tag to every run between the two offsets, unless every
// such run already has it, in which case tag is removed from all of them.
// A collapsed range changes nothing.
func (e *Engine) ToggleStyle(tag richdoc.StyleTag, a, b int) error {
	if tag.ElementName() == "" {
		return fmt.Errorf("%w: %v", ErrUnknownStyle, tag)
	}
	first, last := min(a, b), max(a, b)
	p := e.projection()
	if _, err := p.Locate(first); err != nil {
		return err
	}
	if _, err := p.Locate(last); err != nil {
		return err
	}
	if first == last {
		return nil
	}

	refs := e.rangeRuns(first, last)
	remove := true
	for _, ref := range refs {
		if !e.Doc.Blocks[ref.Block].Runs[ref.Run].Styles.Has(tag) {
			remove = false
			break
		}
	}
	for _, ref := range refs {
		run := &e.Doc.Blocks[ref.Block].Runs[ref.Run]
		if remove {
			run.Styles = run.Styles.Without(tag)
		} else {
			run.Styles = run.Styles.With(tag)
		}
	}

	fb, _ := p.BlockAt(first)
	lb, _ := p.BlockAt(last)
	for i := fb; i <= lb; i++ {
		richdoc.NormalizeBlock(&e.Doc.Blocks[i])
	}
	return nil
}

// Slice copies the content between two offsets into a new document, one
// block per paragraph touched, without changing the engine's document.
func (e *Engine) Slice(a, b int) (*richdoc.Document, error) {
	first, last := min(a, b), max(a, b)
	p := e.projection()
	if _, err := p.Locate(first); err != nil {
		return nil, err
	}
	if _, err := p.Locate(last); err != nil {
		return nil, err
	}
	fb, _ := p.BlockAt(first)

	frag := &Engine{Doc: richdoc.CloneDocument(e.Doc)}
	if err := frag.DeleteRange(last, p.Len()); err != nil {
		return nil, err
	}
	if err := frag.DeleteRange(0, first); err != nil {
		return nil, err
	}
	frag.Doc.Blocks[0].Kind = e.Doc.Blocks[fb].Kind
	return frag.Doc, nil
}

// SelectedText is the plain text between two offsets, with '\n' standing
// for each separator.
func (e *Engine) SelectedText(a, b int) (string, error) {
	frag, err := e.Slice(a, b)
	if err != nil {
		return "", err
	}
	return frag.Text(), nil
}

// splitRun makes offset a run boundary by cutting the run under it in two.
// Splitting at an existing boundary does nothing. The halves share a style
// set, so the block must be normalized before the edit completes.
func (e *Engine) splitRun(offset int) error {
	loc, err := e.projection().Locate(offset)
	if err != nil {
		return err
	}
	runs := e.Doc.Blocks[loc.Block].Runs
	run := runs[loc.Run]
	if loc.Pos == 0 || loc.Pos == run.Len() {
		return nil
	}
	i := byteIndex(run.Text, loc.Pos)
	e.Doc.Blocks[loc.Block].Runs = slices.Replace(runs, loc.Run, loc.Run+1,
		richdoc.Run{Styles: run.Styles, Text: run.Text[:i]},
		richdoc.Run{Styles: run.Styles, Text: run.Text[i:]},
	)
	return nil
}

// rangeRuns splits runs at both offsets and returns the non-empty runs lying
// inside [first, last), in document order.
func (e *Engine) rangeRuns(first, last int) []RunRef {
	if err := e.splitRun(first); err != nil {
		return nil
	}
	if err := e.splitRun(last); err != nil {
		return nil
	}
	p := e.projection()
	fb, _ := p.BlockAt(first)
	lb, _ := p.BlockAt(last)
	var refs []RunRef
	for bi := fb; bi <= lb; bi++ {
		off := p.BlockStart(bi)
		for ri, r := range e.Doc.Blocks[bi].Runs {
			n := r.Len()
			if n > 0 && off >= first && off+n <= last {
				refs = append(refs, RunRef{Block: bi, Run: ri})
			}
			off += n
		}
	}
	return refs
}

// byteIndex converts a code-point position within s to a byte index.
func byteIndex(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == pos {
			return i
		}
		n++
	}
	return len(s)
}
