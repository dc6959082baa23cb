package nethtml

import "github.com/akowalsk/distill"

// Ensure Cleaner implements distill.Cleaner at compile time.
var _ distill.Cleaner = (*Cleaner)(nil)

// Cleaner reduces raw HTML to simplified HTML: parse, simplify, render.
// Cleaner is stateless and safe for concurrent use.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean parses raw HTML, simplifies the body, and renders the result.
// A page that reduces to nothing yields the empty string with no error.
func (c *Cleaner) Clean(raw string) (string, error) {
	node, err := Parse(raw)
	if err != nil {
		return "", err
	}

	result, err := distill.Simplify(node)
	if err != nil {
		return "", err
	}

	return Render(result)
}
