package extract

import (
	"regexp"
	"strings"
)

// Collapse trims s and folds every run of white space to a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Dedupe removes the doubling that appears when a visible run and its
// screen-reader copy are read together: "AcmeAcme" and "Masai Masai" both
// become the single value.
func Dedupe(s string) string {
	s = Collapse(s)
	if n := len(s); n > 0 && n%2 == 0 && s[:n/2] == s[n/2:] {
		return s[:n/2]
	}
	words := strings.Fields(s)
	if n := len(words); n > 1 && n%2 == 0 {
		half := strings.Join(words[:n/2], " ")
		if half == strings.Join(words[n/2:], " ") {
			return half
		}
	}
	if len(words) > 1 {
		same := true
		for _, w := range words[1:] {
			if w != words[0] {
				same = false
				break
			}
		}
		if same {
			return words[0]
		}
	}
	return s
}

var (
	imageSuffix    = regexp.MustCompile(`(?i)\s*\b(company\s+)?(logo|image|icon|graphic)$`)
	typeSuffix     = regexp.MustCompile(`(?i)\s*(·|-|\|)\s*(` + employmentTypes + `)\b.*$`)
	durationSuffix = regexp.MustCompile(`(?i)\s*(·|-)?\s*\d+\s*(yrs?|mos?|years?|months?)\b.*$`)
	middleDot      = regexp.MustCompile(`\s+·\s+.*$`)
)

// CleanEmployer removes the decorations the page adds to employer names:
// logo captions, employment types, durations and anything after " · ".
func CleanEmployer(s string) string {
	s = Dedupe(s)
	s = imageSuffix.ReplaceAllString(s, "")
	s = typeSuffix.ReplaceAllString(s, "")
	s = durationSuffix.ReplaceAllString(s, "")
	s = middleDot.ReplaceAllString(s, "")
	return Dedupe(strings.Trim(s, " ·-|,"))
}

// CleanTitle normalizes a title candidate.
func CleanTitle(s string) string {
	return Dedupe(strings.Trim(Collapse(s), " ·-|,"))
}
