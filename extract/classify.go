package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Class is the kind of value a candidate string most likely holds.
type Class int

// Classes, from least to most useful.
const (
	ClassUnknown Class = iota
	// ClassNoise is page chrome: button labels, logo captions, counters.
	ClassNoise
	// ClassPeriod is a date range, a duration or an employment type.
	ClassPeriod
	// ClassTitle is a job title.
	ClassTitle
	// ClassCompany is an organization name.
	ClassCompany
)

func (c Class) String() string {
	switch c {
	case ClassNoise:
		return "noise"
	case ClassPeriod:
		return "period"
	case ClassTitle:
		return "title"
	case ClassCompany:
		return "company"
	default:
		return "unknown"
	}
}

// Rule maps a pattern to a classification.
type Rule struct {
	Pattern *regexp.Regexp
	Class   Class
}

const months = `jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec|january|february|march|april|june|july|august|september|october|november|december`

const employmentTypes = `full[- ]time|part[- ]time|contract|internship|freelance|temporary|self[- ]employed|seasonal|apprenticeship`

// Rules is the classification table. Rules are tried in order and the first
// matching rule decides; strings matching no rule fall through to the
// title-case test in Classify.
var Rules = []Rule{
	{regexp.MustCompile(`(?i)\b(logo|see more|show all|show details|followers|connections|view profile|open to)\b`), ClassNoise},
	{regexp.MustCompile(`(?i)^(remote|hybrid|on[- ]site)$`), ClassNoise},
	{regexp.MustCompile(`(?i)^(` + employmentTypes + `)$`), ClassPeriod},
	{regexp.MustCompile(`(?i)(^|\s)·\s*(` + employmentTypes + `)\b`), ClassPeriod},
	{regexp.MustCompile(`(?i)\b\d+\s*(yrs?|mos?|years?|months?)\b`), ClassPeriod},
	{regexp.MustCompile(`(?i)\b(` + months + `)\.?\s+\d{4}\b`), ClassPeriod},
	{regexp.MustCompile(`(?i)\b\d{4}\s*[-–]\s*(\d{4}|present)\b`), ClassPeriod},
	{regexp.MustCompile(`(?i)^present$`), ClassPeriod},
	{regexp.MustCompile(`(?i)\b(inc|llc|ltd|limited|corp|corporation|gmbh|plc|pvt|llp|services|consultants|technologies)\.?$`), ClassCompany},
	{regexp.MustCompile(`(?i)&\s*(ceo|cto|cfo|coo|founder)\b`), ClassTitle},
	{regexp.MustCompile(`(?i)\b(senior|sr\.?|junior|jr\.?|lead|principal|staff|head of|chief|vp|vice president|president|director|manager|engineer|engineering manager|developer|analyst|consultant|designer|architect|specialist|scientist|researcher|intern|trainee|student|apprentice|coordinator|associate|executive|officer|administrator|recruiter|founder|co-founder|cofounder|owner|partner|ceo|cto|cfo|coo|cmo|cio|full[- ]?stack|frontend|front[- ]end|backend|back[- ]end|devops|sre|qa|tester|programmer|product manager|product owner|software|data|teacher|professor|lecturer|advisor|mentor|freelancer)\b`), ClassTitle},
}

// Classify decides what kind of value s holds using Rules. Strings that match
// no rule are companies when they start with an upper-case letter or digit.
func Classify(s string) Class {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClassUnknown
	}
	for _, r := range Rules {
		if r.Pattern.MatchString(s) {
			return r.Class
		}
	}
	if titleCased(s) {
		return ClassCompany
	}
	return ClassUnknown
}

// LooksLikeTitle reports whether s reads as a job title.
func LooksLikeTitle(s string) bool {
	return Classify(s) == ClassTitle
}

// LooksLikeCompany reports whether s reads as an organization name.
func LooksLikeCompany(s string) bool {
	return Classify(s) == ClassCompany
}

func titleCased(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}
