package prospect

import "context"

// FinderQuery asks the lookup API for one person's address.
// Either Company or Domain identifies the organization.
type FinderQuery struct {
	FirstName string
	LastName  string
	Company   string
	Domain    string
}

// FinderResult is the lookup API's answer to a FinderQuery.
// Email is empty when the API knows the organization but not the person.
type FinderResult struct {
	Email    string
	Score    *int
	Domain   string
	Company  string
	Position string
}

// DomainEmail is one known address at a domain.
type DomainEmail struct {
	Value      string
	Confidence *int
	FirstName  string
	LastName   string
	Position   string
}

// LookupService is the external contact-lookup API.
// The credential is passed on every call and never stored by implementations.
//
// Implementations return EUNAUTHORIZED for HTTP 401, ERATELIMIT for HTTP 429
// and ELOOKUP for any other failure.
type LookupService interface {
	// FindEmail searches for a single person's address.
	FindEmail(ctx context.Context, apiKey string, q FinderQuery) (*FinderResult, error)

	// SearchDomain returns up to limit known addresses at a domain.
	SearchDomain(ctx context.Context, apiKey string, domain string, limit int) ([]DomainEmail, error)

	// Account returns the account summary for the credential.
	Account(ctx context.Context, apiKey string) (*Account, error)
}
