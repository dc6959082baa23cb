package nethtml

import (
	"bytes"

	"github.com/akowalsk/distill"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serializes a Result to HTML. Empty renders as the empty string,
// Text as escaped character data, Anchor as an <a> element, and Group as
// a <section> element wrapping its items, with a single space between
// consecutive text items. Anchors sit adjacent to neighboring text with
// no forced separator.
func Render(result distill.Result) (string, error) {
	node := toHTMLNode(result)
	if node == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", distill.Errorf(distill.EINTERNAL, "failed to render result: %v", err)
	}
	return buf.String(), nil
}

// toHTMLNode builds the output tree. Text escaping is left to html.Render.
func toHTMLNode(result distill.Result) *html.Node {
	switch r := result.(type) {
	case *distill.Text:
		return &html.Node{Type: html.TextNode, Data: r.Content}
	case *distill.Anchor:
		return anchorNode(r)
	case *distill.Group:
		section := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Section,
			Data:     "section",
		}
		var prevText bool
		for _, item := range r.Items {
			_, isText := item.(*distill.Text)
			if isText && prevText {
				section.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
			}
			if child := toHTMLNode(item); child != nil {
				section.AppendChild(child)
			}
			prevText = isText
		}
		return section
	default: // distill.Empty
		return nil
	}
}

func anchorNode(a *distill.Anchor) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.A,
		Data:     "a",
		Attr:     []html.Attribute{{Key: "href", Val: a.Href}},
	}
	if a.Text != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: a.Text})
	}
	return node
}
