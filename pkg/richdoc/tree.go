package richdoc

import (
	"errors"
	"fmt"
	"strings"
)

type NodeType uint8

const (
	NodeElement NodeType = iota
	NodeText
)

// Node is the generic element tree exchanged with the host surface. Element
// nodes carry a tag name and children; text nodes carry only text.
type Node struct {
	Type     NodeType
	Tag      string
	Text     string
	Class    string
	Children []*Node
}

// EmptyBlockClass marks a serialized block that holds no text, only the
// line-break placeholder.
const EmptyBlockClass = "empty-block"

func Element(tag string, children ...*Node) *Node {
	return &Node{Type: NodeElement, Tag: tag, Children: children}
}

func Text(s string) *Node {
	return &Node{Type: NodeText, Text: s}
}

// inlineElements are the non-style elements that may appear loose at the
// top level of an editable container alongside text.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "big": true, "cite": true, "code": true,
	"font": true, "kbd": true, "label": true, "mark": true, "q": true,
	"samp": true, "small": true, "span": true, "time": true, "var": true,
}

func isInlineElement(tag string) bool {
	if _, ok := ParseStyleTag(tag); ok {
		return true
	}
	return inlineElements[strings.ToLower(tag)]
}

// Parse builds a normalized document from an element tree. Block-level
// children of root become blocks. Loose text and inline elements between
// them are gathered into implicit p blocks; a void element such as br or hr
// at the top level only ends the implicit block it follows. Inside a block,
// each text leaf is styled by the style elements among its ancestors; other
// inline elements are transparent. Adjacent leaves with equal style sets
// merge into one run.
func Parse(root *Node) (*Document, error) {
	if root == nil || root.Type != NodeElement {
		return nil, fmt.Errorf("%w: root must be an element", ErrMalformedTree)
	}
	doc := &Document{Blocks: make([]Block, 0, len(root.Children))}
	var loose []*Node
	flush := func() error {
		for len(loose) > 0 && isBlankText(loose[len(loose)-1]) {
			loose = loose[:len(loose)-1]
		}
		if len(loose) == 0 {
			return nil
		}
		runs, err := parseRuns(Element(string(BlockKindParagraph), loose...))
		loose = nil
		if err != nil {
			return fmt.Errorf("block %d: %w", len(doc.Blocks), err)
		}
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockKindParagraph, Runs: runs})
		return nil
	}
	for i, child := range root.Children {
		if child == nil {
			return nil, fmt.Errorf("%w: nil child %d", ErrMalformedTree, i)
		}
		switch child.Type {
		case NodeText:
			if len(loose) == 0 && isBlankText(child) {
				continue
			}
			loose = append(loose, child)
		case NodeElement:
			switch {
			case isVoidElement(child.Tag):
				if err := flush(); err != nil {
					return nil, err
				}
			case isInlineElement(child.Tag):
				loose = append(loose, child)
			default:
				if err := flush(); err != nil {
					return nil, err
				}
				runs, err := parseRuns(child)
				if err != nil {
					return nil, fmt.Errorf("block %d: %w", len(doc.Blocks), err)
				}
				doc.Blocks = append(doc.Blocks, Block{Kind: BlockKind(strings.ToLower(child.Tag)), Runs: runs})
			}
		default:
			return nil, fmt.Errorf("%w: unknown node type %d", ErrMalformedTree, child.Type)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	Normalize(doc)
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isBlankText(n *Node) bool {
	return n.Type == NodeText && strings.TrimSpace(n.Text) == ""
}

func parseRuns(block *Node) ([]Run, error) {
	var runs []Run
	var walk func(n *Node, styles StyleSet) error
	walk = func(n *Node, styles StyleSet) error {
		for _, c := range n.Children {
			if c == nil {
				return fmt.Errorf("%w: nil child under <%s>", ErrMalformedTree, n.Tag)
			}
			switch c.Type {
			case NodeText:
				if last := len(runs) - 1; last >= 0 && runs[last].Styles == styles {
					runs[last].Text += c.Text
					continue
				}
				runs = append(runs, Run{Styles: styles, Text: c.Text})
			case NodeElement:
				s := styles
				if tag, ok := ParseStyleTag(c.Tag); ok {
					s = s.With(tag)
				}
				if err := walk(c, s); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: unknown node type %d", ErrMalformedTree, c.Type)
			}
		}
		return nil
	}
	if err := walk(block, 0); err != nil {
		return nil, err
	}
	return runs, nil
}

// Serialize renders a document as an element tree: a div root holding one
// element per block. Each run becomes a chain of style elements, outermost
// first in canonical tag order, around its text. A block without text holds a
// single br placeholder and is marked with EmptyBlockClass.
func Serialize(doc *Document) *Node {
	root := Element("div")
	if doc == nil {
		return root
	}
	root.Children = make([]*Node, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		kind := b.Kind
		if kind == "" || isVoidElement(string(kind)) {
			kind = BlockKindParagraph
		}
		el := Element(string(kind))
		if b.Len() == 0 {
			el.Children = []*Node{Element("br")}
			el.Class = EmptyBlockClass
		} else {
			for _, r := range b.Runs {
				if r.Text == "" {
					continue
				}
				el.Children = append(el.Children, runChain(r))
			}
		}
		root.Children = append(root.Children, el)
	}
	return root
}

func runChain(r Run) *Node {
	node := Text(r.Text)
	tags := r.Styles.Tags()
	for i := len(tags) - 1; i >= 0; i-- {
		node = Element(tags[i].ElementName(), node)
	}
	return node
}

var errNilNode = errors.New("richdoc: nil node")
