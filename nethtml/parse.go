// Package nethtml adapts the golang.org/x/net/html parser and renderer
// to the distill domain model. It produces MarkupNode trees with script
// and style subtrees removed, and renders Result trees back to HTML.
package nethtml

import (
	"strings"

	"github.com/akowalsk/distill"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses raw HTML into a MarkupNode tree rooted at the document
// body, or at the whole document if no body element is present. Script
// and style subtrees are dropped; text content preserves the original
// characters with entities decoded.
func Parse(raw string) (distill.MarkupNode, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	root := findBody(doc)
	if root != nil {
		return convertElement(root), nil
	}

	// No body element: treat the whole document as the content root.
	synthetic := &distill.ElementNode{TagName: "html"}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			synthetic.Children = append(synthetic.Children, child)
		}
	}
	return synthetic, nil
}

// findBody locates the body element in a parsed document.
func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// convert maps one html.Node to the domain model.
// Returns nil for nodes that carry no content (comments, doctypes,
// script and style subtrees).
func convert(n *html.Node) distill.MarkupNode {
	switch n.Type {
	case html.TextNode:
		return &distill.TextNode{Content: n.Data}
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return nil
		}
		return convertElement(n)
	default:
		return nil
	}
}

func convertElement(n *html.Node) *distill.ElementNode {
	elem := &distill.ElementNode{TagName: n.Data}
	if len(n.Attr) > 0 {
		elem.Attributes = make(map[string]string, len(n.Attr))
		for _, attr := range n.Attr {
			// First occurrence wins on duplicate attributes.
			if _, ok := elem.Attributes[attr.Key]; !ok {
				elem.Attributes[attr.Key] = attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			elem.Children = append(elem.Children, child)
		}
	}
	return elem
}
