package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements break visible text into separate lines.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// invisibleElements never contribute visible text.
var invisibleElements = map[string]bool{
	"head": true, "noscript": true, "script": true, "style": true,
	"template": true, "svg": true, "title": true,
}

// visibleLines approximates innerText: text of invisible elements is
// skipped, block elements start new lines, and runs of whitespace collapse.
// Screen-reader-only copies (class "visually-hidden") are skipped because
// the page repeats their text in a visible sibling.
func visibleLines(nodes []*html.Node) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		line := strings.Join(strings.Fields(cur.String()), " ")
		if line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			if invisibleElements[n.Data] || hidden(n) {
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	flush()
	return lines
}

func hidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "class":
			for _, c := range strings.Fields(a.Val) {
				if c == "visually-hidden" {
					return true
				}
			}
		}
	}
	return false
}
