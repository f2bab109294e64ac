// Package extract reads a Profile from a rendered profile page.
//
// Extraction is best effort: each field is read independently, and a field
// that cannot be found is left empty rather than failing the whole profile.
package extract

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/prospect"
)

// Compile-time interface verification.
var _ prospect.Extractor = (*Extractor)(nil)

// Extractor implements prospect.Extractor.
type Extractor struct {
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used to stamp ExtractedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a Profile from doc. A panic while reading the page is
// recovered; the fields read before it are kept, and EEXTRACTION is
// returned only when none were.
func (e *Extractor) Extract(doc prospect.Document) (profile *prospect.Profile, err error) {
	if doc == nil {
		return nil, prospect.Errorf(prospect.EEXTRACTION, "no page to extract from")
	}
	profile = &prospect.Profile{URL: doc.URL(), ExtractedAt: e.now()}
	defer func() {
		if r := recover(); r != nil {
			if profile.Populated() == 0 {
				profile, err = nil, prospect.Errorf(prospect.EEXTRACTION, "extraction failed: %v", r)
			}
		}
	}()

	profile.FullName = Name(doc)
	profile.ImageURL = Image(doc)
	profile.Location = Location(doc)

	role := CurrentRole(doc)
	profile.Title = role.Title
	profile.Employer = role.Employer
	if role.CompanyURL != "" && role.Employer != "" {
		profile.Domain = domainFromLink(role.CompanyURL, role.Employer)
	}

	if profile.Title == "" || profile.Employer == "" {
		headlineFallback(doc, profile)
	}
	if profile.Employer == "" {
		if n := doc.FindFirst(topCardEmployerSelectors...); n != nil {
			if employer := CleanEmployer(n.Text()); Classify(employer) == ClassCompany {
				profile.Employer = employer
			}
		}
	}
	if profile.Employer == "" && doc.FindFirst(openToWorkSelectors...) != nil {
		profile.Employer = prospect.OpenToWorkEmployer
	}
	return profile, nil
}

// headlineFallback fills title and employer from the profile headline.
func headlineFallback(doc prospect.Node, profile *prospect.Profile) {
	n := doc.FindFirst(headlineSelectors...)
	if n == nil {
		return
	}
	headline := Collapse(n.Text())
	if title, employer, ok := SplitCombined(headline); ok {
		if profile.Title == "" {
			profile.Title = title
		}
		if profile.Employer == "" {
			profile.Employer = employer
		}
		return
	}
	if profile.Title == "" && LooksLikeTitle(headline) {
		profile.Title = headline
	}
}

// Image returns the profile photo address. Inline data placeholders are
// ignored.
func Image(doc prospect.Node) string {
	n := doc.FindFirst(imageSelectors...)
	if n == nil {
		return ""
	}
	src, _ := n.Attr("src")
	if strings.HasPrefix(src, "data:") {
		return ""
	}
	return strings.TrimSpace(src)
}

// Location returns the profile location line. Values that are too long or
// contain a bullet separator are other top-card text and are ignored.
func Location(doc prospect.Node) string {
	n := doc.FindFirst(locationSelectors...)
	if n == nil {
		return ""
	}
	loc := Collapse(n.Text())
	if utf8.RuneCountInString(loc) >= 50 || strings.Contains(loc, "•") {
		return ""
	}
	return loc
}
