// Package dom provides a small query interface over markup documents.
//
// Documents are held as an in-memory Element tree. Trees can be built by hand
// with E and T, or parsed from HTML with Parse.
package dom

import (
	"strings"
)

// Node is the read-only query capability the extractors depend on.
type Node interface {
	// Find returns the first descendant matching selector in document order.
	Find(selector string) (Node, bool)
	// FindAll returns every descendant matching selector in document order.
	FindAll(selector string) []Node
	// Parent returns the enclosing element, if any.
	Parent() (Node, bool)
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	// FirstText returns the first non-blank direct text child, trimmed.
	FirstText() (string, bool)
}

// NodeType distinguishes the kinds of Element.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
)

// Attrs is a convenience alias for element attributes.
type Attrs map[string]string

// Element is the in-memory tree node implementing Node.
type Element struct {
	Type     NodeType
	Tag      string
	Attrs    Attrs
	Text     string
	Children []*Element
	parent   *Element
}

// Document returns an empty document root holding children.
func Document(children ...*Element) *Element {
	root := &Element{Type: DocumentNode}
	root.Append(children...)
	return root
}

// E builds an element node.
func E(tag string, attrs Attrs, children ...*Element) *Element {
	el := &Element{Type: ElementNode, Tag: strings.ToLower(tag), Attrs: attrs}
	el.Append(children...)
	return el
}

// T builds a text node.
func T(text string) *Element {
	return &Element{Type: TextNode, Text: text}
}

// Append adds children and links them back to e.
func (e *Element) Append(children ...*Element) {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.parent = e
		e.Children = append(e.Children, child)
	}
}

// Find returns the first descendant matching selector in document order.
func (e *Element) Find(selector string) (Node, bool) {
	sel := ParseSelector(selector)
	var found *Element
	e.walk(func(el *Element) bool {
		if sel.Matches(el) {
			found = el
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

// FindAll returns every descendant matching selector in document order.
func (e *Element) FindAll(selector string) []Node {
	sel := ParseSelector(selector)
	var nodes []Node
	e.walk(func(el *Element) bool {
		if sel.Matches(el) {
			nodes = append(nodes, el)
		}
		return true
	})
	return nodes
}

// Parent returns the enclosing element, if any.
func (e *Element) Parent() (Node, bool) {
	if e.parent == nil || e.parent.Type != ElementNode {
		return nil, false
	}
	return e.parent, true
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	value, ok := e.Attrs[name]
	return value, ok
}

// FirstText returns the first non-blank text among the direct children.
func (e *Element) FirstText() (string, bool) {
	for _, child := range e.Children {
		if child.Type != TextNode {
			continue
		}
		if text := strings.TrimSpace(child.Text); text != "" {
			return text, true
		}
	}
	return "", false
}

// Classes returns the whitespace-separated class list of the element.
func (e *Element) Classes() []string {
	class, _ := e.Attr("class")
	return strings.Fields(class)
}

// walk visits descendants of e in pre-order until visit returns false.
func (e *Element) walk(visit func(*Element) bool) bool {
	for _, child := range e.Children {
		if child.Type != ElementNode {
			continue
		}
		if !visit(child) {
			return false
		}
		if !child.walk(visit) {
			return false
		}
	}
	return true
}
