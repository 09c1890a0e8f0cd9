package sanitize

import "github.com/microcosm-cc/bluemonday"

const (
	// MaxContentLength is the longest entry body kept after sanitization
	MaxContentLength = 50000

	truncationMarker = "... [content truncated]"
)

// policy is the allow-list applied to entry bodies before storage. Everything
// outside it is stripped, since bodies come from untrusted remote documents
// and are rendered to the reader later
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "em", "a", "ul", "ol", "li", "code", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "img")
	p.AllowAttrs("href", "title", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto")

	return p
}

// Content strips disallowed markup from the given entry body and truncates
// the result to MaxContentLength with a marker appended
func Content(raw string) string {
	clean := policy.Sanitize(raw)
	if len(clean) > MaxContentLength {
		clean = clean[:MaxContentLength] + truncationMarker
	}

	return clean
}
