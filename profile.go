package prospect

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// OpenToWorkEmployer is the employer recorded for profiles that advertise
// they are open to work but list no current employer. It is not a real
// organization and is never used as a search key.
const OpenToWorkEmployer = "Freelancer / Open to work"

// Profile is the best-effort record extracted from a profile page.
// Every field is independently optional; an empty string means the field
// could not be extracted. A Profile lives for one request cycle and is never
// merged with an earlier extraction of the same page.
type Profile struct {
	FullName    string    `json:"fullName,omitempty"`
	Title       string    `json:"title,omitempty"`
	Employer    string    `json:"employer,omitempty"`
	Domain      string    `json:"domain,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Location    string    `json:"location,omitempty"`
	URL         string    `json:"url,omitempty"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Populated returns the number of extracted fields that have a value.
// URL and ExtractedAt are request metadata and are not counted.
func (p *Profile) Populated() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, v := range []string{p.FullName, p.Title, p.Employer, p.Domain, p.ImageURL, p.Location} {
		if v != "" {
			n++
		}
	}
	return n
}

// Headline renders title and employer the way a profile card shows them.
func (p *Profile) Headline() string {
	switch {
	case p.Title != "" && p.Employer != "":
		return p.Title + " at " + p.Employer
	case p.Title != "":
		return p.Title
	default:
		return p.Employer
	}
}

// Extractor builds a Profile from a parsed page.
type Extractor interface {
	// Extract never fails for missing fields. It returns EEXTRACTION only
	// when extraction broke unexpectedly and no field was populated.
	Extract(doc Document) (*Profile, error)
}

// ProfileReader loads a profile page and extracts its Profile.
type ProfileReader interface {
	// Read returns EINVALID if url is not a profile page.
	Read(ctx context.Context, url string) (*Profile, error)
}

// IsProfileURL reports whether rawURL points at a person's profile page
// (a /in/<slug> path on linkedin.com or one of its subdomains).
func IsProfileURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return len(parts) >= 2 && parts[0] == "in" && parts[1] != ""
}
