package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/prospect"
)

// Name returns the person's full name, trying the known name selectors
// before scanning the visible text for a line shaped like a name.
func Name(doc prospect.Node) string {
	if n := doc.FindFirst(nameSelectors...); n != nil {
		if name := Dedupe(n.Text()); name != "" {
			return name
		}
	}
	for _, line := range doc.Lines() {
		if LooksLikeName(line) {
			return line
		}
	}
	return ""
}

// LooksLikeName reports whether s is shaped like a personal name: two to four
// capitalized words of letters, dots and hyphens that do not read as a title.
func LooksLikeName(s string) bool {
	s = Collapse(s)
	if n := utf8.RuneCountInString(s); n < 5 || n > 50 {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "linkedin") || strings.Contains(lower, "profile") {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) {
			return false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) && r != '.' && r != '-' && r != '\'' {
				return false
			}
		}
	}
	return !LooksLikeTitle(s)
}
