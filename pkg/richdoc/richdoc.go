package richdoc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

type BlockKind string

const (
	BlockKindParagraph  BlockKind = "p"
	BlockKindDiv        BlockKind = "div"
	BlockKindHeading1   BlockKind = "h1"
	BlockKindHeading2   BlockKind = "h2"
	BlockKindHeading3   BlockKind = "h3"
	BlockKindHeading4   BlockKind = "h4"
	BlockKindHeading5   BlockKind = "h5"
	BlockKindHeading6   BlockKind = "h6"
	BlockKindBlockquote BlockKind = "blockquote"
	BlockKindPre        BlockKind = "pre"
)

// voidElements never have children, so none of them can name a block.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// Run is the smallest addressable unit of a document: one style set over one
// span of text.
type Run struct {
	Styles StyleSet
	Text   string
}

// Len is the run length in projection units (code points).
func (r Run) Len() int {
	return utf8.RuneCountInString(r.Text)
}

type Block struct {
	Kind BlockKind
	Runs []Run
}

func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += r.Len()
	}
	return n
}

// Document exclusively owns its blocks and their runs. Nothing outside the
// document holds references into it; hosts exchange trees through Parse and
// Serialize instead.
type Document struct {
	Blocks []Block
}

var (
	ErrOutOfRange    = errors.New("richdoc: offset out of range")
	ErrMalformedTree = errors.New("richdoc: malformed element tree")
	ErrDenormalized  = errors.New("richdoc: document is not normalized")
	ErrInvalidText   = errors.New("richdoc: text is not valid UTF-8")
)

// NewDocument builds a normalized document with one unstyled paragraph per
// text. With no texts it holds a single empty paragraph.
func NewDocument(texts ...string) *Document {
	doc := &Document{Blocks: make([]Block, 0, len(texts))}
	for _, t := range texts {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockKindParagraph, Runs: []Run{{Text: t}}})
	}
	Normalize(doc)
	return doc
}

func CloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := &Document{Blocks: make([]Block, len(doc.Blocks))}
	for i, b := range doc.Blocks {
		out.Blocks[i] = Block{Kind: b.Kind, Runs: append([]Run(nil), b.Runs...)}
	}
	return out
}

// Text renders the projection as a string, writing '\n' for each separator
// unit so that rune offsets into the result equal projection offsets.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Text())
	}
	return sb.String()
}

// Len is the total projected length, separators included.
func (d *Document) Len() int {
	if len(d.Blocks) == 0 {
		return 0
	}
	n := len(d.Blocks) - 1
	for _, b := range d.Blocks {
		n += b.Len()
	}
	return n
}

func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("richdoc: document is nil")
	}
	if len(doc.Blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrDenormalized)
	}
	for i := range doc.Blocks {
		b := &doc.Blocks[i]
		if b.Kind == "" {
			return fmt.Errorf("%w: block[%d] has no kind", ErrDenormalized, i)
		}
		if isVoidElement(string(b.Kind)) {
			return fmt.Errorf("%w: block[%d] kind %q is a void element", ErrDenormalized, i, b.Kind)
		}
		if err := validateRuns(b.Runs); err != nil {
			return fmt.Errorf("block[%d]: %w", i, err)
		}
	}
	return nil
}

func validateRuns(runs []Run) error {
	if len(runs) == 0 {
		return fmt.Errorf("%w: block has no runs", ErrDenormalized)
	}
	for i, r := range runs {
		if !utf8.ValidString(r.Text) {
			return fmt.Errorf("run[%d]: %w", i, ErrInvalidText)
		}
		if r.Text == "" {
			if len(runs) != 1 {
				return fmt.Errorf("%w: empty run[%d] beside other runs", ErrDenormalized, i)
			}
			if !r.Styles.IsEmpty() {
				return fmt.Errorf("%w: empty run carries styles %s", ErrDenormalized, r.Styles)
			}
		}
		if i > 0 && runs[i-1].Styles == r.Styles {
			return fmt.Errorf("%w: runs %d and %d share styles %s", ErrDenormalized, i-1, i, r.Styles)
		}
	}
	return nil
}
