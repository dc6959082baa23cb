package distill

// Result is the outcome of simplifying one markup node. The set of
// variants is closed: Empty, *Text, *Anchor, or *Group.
//
// A Result tree is transient: it is built in one pass from an immutable
// input tree and consumed immediately by rendering.
type Result interface {
	result()
}

// Empty reports that a node contributed nothing meaningful.
// It is a first-class value so that "no content" is distinct from the
// absence of a result.
type Empty struct{}

func (Empty) result() {}

// Text is a node reduced to plain text. Content is always non-empty and
// trimmed of surrounding whitespace.
type Text struct {
	Content string
}

func (*Text) result() {}

// Anchor is a preserved hyperlink or mailto reference. It is always a
// leaf and is never merged with sibling text. Href is always non-empty
// and starts with "mailto:" or "http".
type Anchor struct {
	Href string
	Text string
}

func (*Anchor) result() {}

// Group is a reduction that mixes multiple text runs and/or anchors.
//
// Invariants maintained by Simplify:
//   - Items holds only *Text and *Anchor values, never Empty or *Group.
//   - Items never has fewer than 2 entries; single-item reductions are
//     unwrapped to the bare item.
//   - No two adjacent entries are both *Text; consecutive text runs are
//     merged with a single joining space.
type Group struct {
	Items []Result
}

func (*Group) result() {}
