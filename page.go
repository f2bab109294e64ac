package prospect

// Node is a narrow, read-only view of one element of a parsed page.
// Lookups that find nothing return nil rather than an error, so extraction
// code can probe freely for elements that may not exist.
type Node interface {
	// Tag returns the lower-case element name.
	Tag() string

	// Text returns the concatenated text content of the node and its descendants.
	Text() string

	// Lines returns the visible text of the subtree split into trimmed,
	// non-empty lines, one per block-level element.
	Lines() []string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// FindFirst tries the selectors in order and returns the first descendant
	// matched by the first selector that matches anything.
	FindFirst(selectors ...string) Node

	// FindAll returns all descendants matching the selector in document order.
	FindAll(selector string) []Node

	// Closest returns the nearest ancestor-or-self matching the selector.
	Closest(selector string) Node

	// Has reports whether any descendant matches the selector.
	Has(selector string) bool
}

// Document is a parsed page.
type Document interface {
	Node

	// URL returns the address the page was loaded from, if known.
	URL() string
}

// DocumentParser parses raw HTML into a Document.
type DocumentParser interface {
	Parse(html string, url string) (Document, error)
}
