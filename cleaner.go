package distill

// Cleaner reduces raw HTML to its simplified form.
//
// Implementations parse the markup, strip script and style subtrees,
// simplify the body (or the whole document if no body is present), and
// render the result. An input that reduces to nothing yields the empty
// string; that is a valid, non-error outcome.
type Cleaner interface {
	Clean(html string) (string, error)
}
