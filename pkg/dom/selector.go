package dom

import (
	"slices"
	"strings"
)

// Selector matches elements by tag name and class list, written as
// "tag.class1.class2". Either part may be omitted: ".retina" matches any tag.
type Selector struct {
	Tag     string
	Classes []string
}

// ParseSelector parses the "tag.class" form. Blank class segments are ignored.
func ParseSelector(s string) Selector {
	parts := strings.Split(strings.TrimSpace(s), ".")
	sel := Selector{Tag: strings.ToLower(parts[0])}
	for _, class := range parts[1:] {
		if class != "" {
			sel.Classes = append(sel.Classes, class)
		}
	}
	return sel
}

// Matches reports whether el has the selector's tag and every selector class.
func (s Selector) Matches(el *Element) bool {
	if el == nil || el.Type != ElementNode {
		return false
	}
	if s.Tag != "" && s.Tag != el.Tag {
		return false
	}
	if len(s.Classes) == 0 {
		return true
	}
	classes := el.Classes()
	for _, class := range s.Classes {
		if !slices.Contains(classes, class) {
			return false
		}
	}
	return true
}

func (s Selector) String() string {
	if len(s.Classes) == 0 {
		return s.Tag
	}
	return s.Tag + "." + strings.Join(s.Classes, ".")
}
