package dom

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Parse reads an HTML document and converts it into an Element tree.
// Comments and doctype nodes are dropped.
func Parse(r io.Reader) (*Element, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return convert(root), nil
}

func convert(n *html.Node) *Element {
	var el *Element

	switch n.Type {
	case html.DocumentNode:
		el = &Element{Type: DocumentNode}
	case html.ElementNode:
		attrs := make(Attrs, len(n.Attr))
		for _, attr := range n.Attr {
			attrs[attr.Key] = attr.Val
		}
		el = &Element{Type: ElementNode, Tag: n.Data, Attrs: attrs}
	case html.TextNode:
		return T(n.Data)
	default:
		return nil
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		el.Append(convert(child))
	}
	return el
}
