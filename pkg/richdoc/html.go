package richdoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DecodeHTML parses an HTML fragment, as found inside an editable container,
// into an element tree rooted at a div. Comments and doctype nodes are
// dropped.
func DecodeHTML(r io.Reader) (*Node, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(r, container)
	if err != nil {
		return nil, fmt.Errorf("richdoc: parse html: %w", err)
	}
	root := Element("div")
	for _, n := range nodes {
		if c := fromHTML(n); c != nil {
			root.Children = append(root.Children, c)
		}
	}
	return root, nil
}

func fromHTML(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := Element(strings.ToLower(n.Data))
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "class" {
				el.Class = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	}
	return nil
}

// EncodeHTML writes the children of root as HTML, the inner markup of the
// editable container. Nothing is written to w unless the whole tree renders.
func EncodeHTML(w io.Writer, root *Node) error {
	if root == nil {
		return errNilNode
	}
	var buf bytes.Buffer
	for _, c := range root.Children {
		hn, err := toHTML(c)
		if err != nil {
			return err
		}
		if err := html.Render(&buf, hn); err != nil {
			return fmt.Errorf("richdoc: render html: %w", err)
		}
	}
	_, err := buf.WriteTo(w)
	return err
}

func toHTML(n *Node) (*html.Node, error) {
	if n == nil {
		return nil, errNilNode
	}
	switch n.Type {
	case NodeText:
		return &html.Node{Type: html.TextNode, Data: n.Text}, nil
	case NodeElement:
		hn := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
		if n.Class != "" {
			hn.Attr = append(hn.Attr, html.Attribute{Key: "class", Val: n.Class})
		}
		for _, c := range n.Children {
			hc, err := toHTML(c)
			if err != nil {
				return nil, err
			}
			hn.AppendChild(hc)
		}
		return hn, nil
	}
	return nil, fmt.Errorf("%w: unknown node type %d", ErrMalformedTree, n.Type)
}

func ParseHTML(r io.Reader) (*Document, error) {
	root, err := DecodeHTML(r)
	if err != nil {
		return nil, err
	}
	return Parse(root)
}

func RenderHTML(w io.Writer, doc *Document) error {
	return EncodeHTML(w, Serialize(doc))
}
