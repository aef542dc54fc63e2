package richdoc

import (
	"fmt"
	"sort"
)

// Location addresses a position inside a document by index: block, run
// within the block, and code-point position within the run's text.
type Location struct {
	Block int
	Run   int
	Pos   int
}

// Projection maps linear offsets onto document locations and back. The
// linear view concatenates block texts with one separator unit between
// consecutive blocks. A Projection describes the document as it was when
// built; any mutation invalidates it.
type Projection struct {
	doc    *Document
	starts []int
	lens   []int
	total  int
}

func NewProjection(doc *Document) *Projection {
	p := &Projection{doc: doc}
	if doc == nil {
		return p
	}
	p.starts = make([]int, len(doc.Blocks))
	p.lens = make([]int, len(doc.Blocks))
	offset := 0
	for i, b := range doc.Blocks {
		if i > 0 {
			offset++
		}
		p.starts[i] = offset
		p.lens[i] = b.Len()
		offset += p.lens[i]
	}
	p.total = offset
	return p
}

func (p *Projection) Len() int {
	return p.total
}

func (p *Projection) BlockCount() int {
	return len(p.starts)
}

func (p *Projection) BlockStart(i int) int {
	return p.starts[i]
}

// BlockEnd is the offset just past the block's last character, which is
// also the offset of the separator that follows it.
func (p *Projection) BlockEnd(i int) int {
	return p.starts[i] + p.lens[i]
}

func (p *Projection) check(offset int) error {
	if offset < 0 || offset > p.total || len(p.starts) == 0 {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrOutOfRange, offset, p.total)
	}
	return nil
}

// BlockAt returns the index of the block owning offset. An offset sitting on
// a separator belongs to the block before it: that block absorbs the next
// one when the separator is deleted.
func (p *Projection) BlockAt(offset int) (int, error) {
	if err := p.check(offset); err != nil {
		return 0, err
	}
	return sort.Search(len(p.starts), func(i int) bool { return p.starts[i] > offset }) - 1, nil
}

// IsSeparator reports whether the unit [offset, offset+1) is the separator
// between two blocks.
func (p *Projection) IsSeparator(offset int) bool {
	b, err := p.BlockAt(offset)
	if err != nil {
		return false
	}
	return b < len(p.starts)-1 && offset == p.BlockEnd(b)
}

// Locate resolves offset to the first run whose cumulative end reaches it.
// At a boundary between runs this is the end of the earlier run, so text
// typed there takes the earlier run's styles.
func (p *Projection) Locate(offset int) (Location, error) {
	b, err := p.BlockAt(offset)
	if err != nil {
		return Location{}, err
	}
	rel := offset - p.starts[b]
	acc := 0
	for i, r := range p.doc.Blocks[b].Runs {
		n := r.Len()
		if acc+n >= rel {
			return Location{Block: b, Run: i, Pos: rel - acc}, nil
		}
		acc += n
	}
	return Location{}, fmt.Errorf("%w: block[%d] has no run at %d", ErrDenormalized, b, offset)
}

// Offset is the inverse of Locate.
func (p *Projection) Offset(loc Location) (int, error) {
	if loc.Block < 0 || loc.Block >= len(p.starts) {
		return 0, fmt.Errorf("%w: block %d of %d", ErrOutOfRange, loc.Block, len(p.starts))
	}
	runs := p.doc.Blocks[loc.Block].Runs
	if loc.Run < 0 || loc.Run >= len(runs) {
		return 0, fmt.Errorf("%w: run %d of %d in block %d", ErrOutOfRange, loc.Run, len(runs), loc.Block)
	}
	if loc.Pos < 0 || loc.Pos > runs[loc.Run].Len() {
		return 0, fmt.Errorf("%w: position %d in run of length %d", ErrOutOfRange, loc.Pos, runs[loc.Run].Len())
	}
	offset := p.starts[loc.Block]
	for _, r := range runs[:loc.Run] {
		offset += r.Len()
	}
	return offset + loc.Pos, nil
}
