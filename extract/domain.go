package extract

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// dropWords are legal-form and web-domain tokens trimmed from the end of an
// employer name.
var dropWords = map[string]bool{
	"inc": true, "llc": true, "ltd": true, "limited": true, "corp": true,
	"corporation": true, "co": true, "company": true, "group": true,
	"gmbh": true, "plc": true, "pvt": true, "private": true, "holdings": true,
	"sa": true, "ag": true, "bv": true,
	"com": true, "in": true, "ai": true, "io": true, "org": true, "net": true,
	"dev": true, "app": true,
}

// DeriveDomain guesses a web domain from an employer name by dropping legal
// suffixes and punctuation and appending ".com": "Acme Inc" becomes
// "acme.com". It returns "" when nothing usable remains.
func DeriveDomain(employer string) string {
	s := strings.ToLower(Collapse(employer))
	s = tldSuffix.ReplaceAllString(s, "")
	kept := strings.Fields(nonAlnum.ReplaceAllString(s, " "))
	for len(kept) > 0 && dropWords[kept[len(kept)-1]] {
		kept = kept[:len(kept)-1]
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "") + ".com"
}

var companySlug = regexp.MustCompile(`/company/([^/?#]+)`)

// domainFromLink derives a domain from a company page link, preferring the
// link's slug and falling back to the employer name when the slug is a
// numeric id.
func domainFromLink(href, employer string) string {
	if m := companySlug.FindStringSubmatch(href); m != nil {
		slug := m[1]
		if strings.Trim(slug, "0123456789") != "" {
			return DeriveDomain(strings.ReplaceAll(slug, "-", " "))
		}
	}
	return DeriveDomain(employer)
}
