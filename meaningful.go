package distill

import (
	"regexp"
	"strings"
)

// Patterns for meaningful text detection.
var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?(\(?\d{3}\)?[-.\s]?){1,2}\d{4}`)
	urlPattern   = regexp.MustCompile(`https?://\S+`)
)

// IsMeaningful reports whether text is worth preserving: it contains an
// email-like, phone-like, or absolute-URL substring, or is non-empty
// after trimming whitespace. The pattern rules exist to document intent;
// for any text with visible characters the trim rule already accepts it.
//
// IsMeaningful is a pure predicate with no side effects.
func IsMeaningful(text string) bool {
	if emailPattern.MatchString(text) {
		return true
	}
	if phonePattern.MatchString(text) {
		return true
	}
	if urlPattern.MatchString(text) {
		return true
	}
	return strings.TrimSpace(text) != ""
}
