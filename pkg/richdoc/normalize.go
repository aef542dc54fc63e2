package richdoc

// Normalize restores the structural invariants of every block: adjacent runs
// with equal style sets are merged, empty runs are dropped, and a block left
// without text collapses to a single unstyled empty run. A document without
// blocks gains one empty paragraph. Normalizing a normalized document is a
// no-op.
func Normalize(doc *Document) {
	if doc == nil {
		return
	}
	if len(doc.Blocks) == 0 {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockKindParagraph, Runs: []Run{{}}})
	}
	for i := range doc.Blocks {
		NormalizeBlock(&doc.Blocks[i])
	}
}

func NormalizeBlock(b *Block) {
	if b.Kind == "" || isVoidElement(string(b.Kind)) {
		b.Kind = BlockKindParagraph
	}
	b.Runs = normalizeRuns(b.Runs)
}

func normalizeRuns(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Styles == r.Styles {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []Run{{}}
	}
	return out
}
