package extract

import (
	"regexp"
	"strings"
)

var (
	atSeparators = []*regexp.Regexp{
		regexp.MustCompile(` @ `),
		regexp.MustCompile(`(?i) at `),
	}
	secondarySeparators = []string{" | ", " · ", ", ", " - ", " – "}
	tldSuffix           = regexp.MustCompile(`(?i)\.(com|in|ai|io|co|org|net|dev|app)$`)
)

// SplitCombined splits a headline of the form "Title @ Employer" or
// "Title at Employer" into its parts. Trailing segments after a secondary
// separator are dropped from the employer along with a web-domain suffix, so
// "Senior Engineer @ Globex.com | Remote" gives "Senior Engineer" and
// "Globex". ok is false when s holds no separator or either side is empty.
func SplitCombined(s string) (title, employer string, ok bool) {
	s = Collapse(s)
	for _, sep := range atSeparators {
		loc := sep.FindStringIndex(s)
		if loc == nil {
			continue
		}
		title = strings.TrimSpace(s[:loc[0]])
		employer = s[loc[1]:]
		for _, sec := range secondarySeparators {
			if j := strings.Index(employer, sec); j >= 0 {
				employer = employer[:j]
			}
		}
		employer = tldSuffix.ReplaceAllString(strings.TrimSpace(employer), "")
		employer = strings.TrimSpace(employer)
		if title == "" || employer == "" {
			return "", "", false
		}
		return title, employer, true
	}
	return "", "", false
}

// IsCombined reports whether s holds both a title and an employer.
func IsCombined(s string) bool {
	_, _, ok := SplitCombined(s)
	return ok
}
