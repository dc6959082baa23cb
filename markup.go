package distill

import "strings"

// MarkupNode is one node of a parsed HTML tree as handed over by the
// parser adapter. The set of variants is closed: a node is either a
// TextNode or an ElementNode.
//
// Nodes are owned by their parent tree and treated as immutable by the
// simplifier.
type MarkupNode interface {
	markupNode()
}

// TextNode is a leaf holding character data. Content preserves the
// original characters; no trimming happens at parse time.
type TextNode struct {
	Content string
}

func (*TextNode) markupNode() {}

// ElementNode is an element with a tag name, attributes, and an ordered
// list of children. Child order is significant and preserved.
type ElementNode struct {
	TagName    string
	Attributes map[string]string
	Children   []MarkupNode
}

func (*ElementNode) markupNode() {}

// Attr returns the value of the named attribute and whether it is present.
func (e *ElementNode) Attr(name string) (string, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// VisibleText returns the concatenation of all descendant text, with each
// text fragment trimmed of surrounding whitespace and blank fragments
// dropped.
func (e *ElementNode) VisibleText() string {
	var sb strings.Builder
	e.appendVisibleText(&sb)
	return sb.String()
}

func (e *ElementNode) appendVisibleText(sb *strings.Builder) {
	for _, child := range e.Children {
		switch c := child.(type) {
		case *TextNode:
			sb.WriteString(strings.TrimSpace(c.Content))
		case *ElementNode:
			c.appendVisibleText(sb)
		}
	}
}
