package prospect

import "context"

// MatchSource describes how strongly a found address is tied to the person.
type MatchSource string

// Match sources.
const (
	// SourceExact is a finder hit for the full name at the employer, or a
	// domain address whose local part carries both names.
	SourceExact MatchSource = "exact"
	// SourcePartial is a domain address whose local part carries only one of the names.
	SourcePartial MatchSource = "partial"
	// SourceNameOnly is a match made with a first name alone (single-word names).
	SourceNameOnly MatchSource = "name-only"
	// SourceDomainOnly is a finder hit keyed by the derived domain because the
	// employer name was unusable.
	SourceDomainOnly MatchSource = "domain-only"
)

// Strategy identifies a rung of the enrichment ladder.
type Strategy string

// Enrichment strategies, in the order they are tried.
const (
	StrategyFinder       Strategy = "email-finder"
	StrategyDomainSearch Strategy = "domain-search"
)

// SearchQuery is the set of parameters the ladder searched with.
type SearchQuery struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// Key returns the organization key used for the search: the company name,
// or the domain when no company was usable.
func (q SearchQuery) Key() string {
	if q.Company != "" {
		return q.Company
	}
	return q.Domain
}

// Contact is the result of one enrichment call. A Contact without an Email
// is a valid "not found" outcome; Query then records what was searched.
type Contact struct {
	Email      string      `json:"email,omitempty"`
	Confidence int         `json:"confidence,omitempty"`
	Source     MatchSource `json:"source,omitempty"`
	Strategy   Strategy    `json:"strategy,omitempty"`

	// Company and Position are reported by the lookup API and may differ
	// from the extracted profile.
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`

	Query SearchQuery `json:"query"`

	// Attempts lists the ladder rungs that ran, in order.
	Attempts []Attempt `json:"attempts,omitempty"`
}

// Attempt records one rung of the strategy ladder. A rung that ran cleanly
// and found nothing has no Err; a soft lookup failure is recorded in Err so
// callers can tell "nothing found" from "lookup errored".
type Attempt struct {
	Strategy Strategy `json:"strategy"`
	Err      string   `json:"error,omitempty"`
}

// Found reports whether an address was found.
func (c *Contact) Found() bool {
	return c != nil && c.Email != ""
}

// Enricher finds a contact address for a profile.
type Enricher interface {
	// Enrich validates the profile, then walks the strategy ladder.
	// It returns ENOCREDENTIAL, EMISSINGNAME or EMISSINGCOMPANY before any
	// network call, and EUNAUTHORIZED or ERATELIMIT when the lookup API
	// rejects the request. Exhausting the ladder is not an error.
	Enrich(ctx context.Context, profile *Profile) (*Contact, error)
}
