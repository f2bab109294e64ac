// Package goquery implements the prospect page query boundary over
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prospect"
)

// Compile-time interface verification.
var (
	_ prospect.Node           = (*Node)(nil)
	_ prospect.Document       = (*Document)(nil)
	_ prospect.DocumentParser = (*Parser)(nil)
)

// Node wraps a single-element goquery selection.
type Node struct {
	sel *goquery.Selection
}

// Tag returns the lower-case element name.
func (n *Node) Tag() string {
	return goquery.NodeName(n.sel)
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	return n.sel.Text()
}

// Lines returns the visible text of the subtree, one entry per block.
func (n *Node) Lines() []string {
	return visibleLines(n.sel.Nodes)
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// FindFirst returns the first element matched by the first selector that
// matches anything. Invalid selectors match nothing.
func (n *Node) FindFirst(selectors ...string) prospect.Node {
	for _, selector := range selectors {
		if found := n.sel.Find(selector); found.Length() > 0 {
			return wrap(found.First())
		}
	}
	return nil
}

// FindAll returns all descendants matching the selector in document order.
func (n *Node) FindAll(selector string) []prospect.Node {
	found := n.sel.Find(selector)
	nodes := make([]prospect.Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, wrap(s))
	})
	return nodes
}

// Closest returns the nearest ancestor-or-self matching the selector.
func (n *Node) Closest(selector string) prospect.Node {
	if found := n.sel.Closest(selector); found.Length() > 0 {
		return wrap(found)
	}
	return nil
}

// Has reports whether any descendant matches the selector.
func (n *Node) Has(selector string) bool {
	return n.sel.Find(selector).Length() > 0
}

// HTML returns the outer HTML of the node. Used for debug logging.
func (n *Node) HTML() string {
	html, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return html
}

func wrap(sel *goquery.Selection) *Node {
	return &Node{sel: sel}
}

// Document is a parsed page.
type Document struct {
	Node
	url string
}

// URL returns the address the page was loaded from.
func (d *Document) URL() string {
	return d.url
}

// Parse parses HTML into a Document.
func Parse(html string, url string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prospect.Errorf(prospect.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{Node: Node{sel: doc.Selection}, url: url}, nil
}

// Parser implements prospect.DocumentParser.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses HTML into a prospect.Document.
func (p *Parser) Parse(html string, url string) (prospect.Document, error) {
	doc, err := Parse(html, url)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
