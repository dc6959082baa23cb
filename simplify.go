package distill

import "strings"

// Simplify recursively reduces a markup node to its meaningful content.
//
// Text nodes are trimmed and dropped when blank. Anchors whose href
// starts with "mailto:" or "http" are preserved as Anchor leaves; other
// anchors collapse to their visible text. Any other element reduces its
// children in order, merging consecutive text runs with a single joining
// space and flattening nested groups one level, then unwraps single-item
// results.
//
// Simplify is pure and reentrant: it holds no shared state, performs no
// I/O, and never mutates its input, so it is safe to call concurrently
// on independent trees. The only error case is a malformed input tree;
// every well-formed tree maps to a defined Result.
func Simplify(node MarkupNode) (Result, error) {
	switch n := node.(type) {
	case *TextNode:
		if !IsMeaningful(n.Content) {
			return Empty{}, nil
		}
		return &Text{Content: strings.TrimSpace(n.Content)}, nil
	case *ElementNode:
		if n.TagName == "" {
			return nil, Errorf(EINVALID, "element node without a tag name")
		}
		if n.TagName == "a" {
			return simplifyAnchor(n), nil
		}
		return simplifyElement(n)
	case nil:
		return nil, Errorf(EINVALID, "nil markup node")
	default:
		return nil, Errorf(EINVALID, "unsupported markup node type %T", node)
	}
}

// simplifyAnchor reduces an <a> element. The anchor survives as a link
// record only for mailto and http(s) hrefs; a preserved anchor keeps its
// href even when the visible text is empty, acting as a structural
// marker. Relative and otherwise unusable hrefs degrade to plain text.
func simplifyAnchor(n *ElementNode) Result {
	href, _ := n.Attr("href")
	text := n.VisibleText()

	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "http") {
		return &Anchor{Href: href, Text: text}
	}
	if text != "" {
		return &Text{Content: text}
	}
	return Empty{}
}

// simplifyElement reduces a generic element by reducing each child in
// order and merging the results. A child Group is flattened one level
// into the item stream, so its leading and trailing text runs take part
// in the surrounding merge; a Group therefore never nests inside
// another Group.
func simplifyElement(n *ElementNode) (Result, error) {
	var items []Result
	var buffered []string

	flush := func() {
		if len(buffered) > 0 {
			items = append(items, &Text{Content: strings.Join(buffered, " ")})
			buffered = buffered[:0]
		}
	}

	var add func(r Result)
	add = func(r Result) {
		switch v := r.(type) {
		case Empty:
			// contributed nothing
		case *Text:
			buffered = append(buffered, v.Content)
		case *Anchor:
			flush()
			items = append(items, v)
		case *Group:
			for _, item := range v.Items {
				add(item)
			}
		}
	}

	for _, child := range n.Children {
		r, err := Simplify(child)
		if err != nil {
			return nil, err
		}
		add(r)
	}
	flush()

	switch len(items) {
	case 0:
		return Empty{}, nil
	case 1:
		return items[0], nil
	default:
		return &Group{Items: items}, nil
	}
}
