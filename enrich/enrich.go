// Package enrich finds contact addresses for extracted profiles.
//
// The Service validates a profile, then walks a ladder of lookup strategies
// from most to least specific, stopping at the first address found.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/extract"
)

// Compile-time interface verification.
var (
	_ prospect.Enricher       = (*Service)(nil)
	_ prospect.AccountChecker = (*Service)(nil)
)

// DomainSearchLimit is the number of addresses requested from a domain search.
const DomainSearchLimit = 50

// Confidence floors for domain-search matches.
const (
	ExactConfidenceFloor   = 50
	PartialConfidenceFloor = 30
)

// MinEmployerLength is the shortest employer name accepted as a search key.
const MinEmployerLength = 3

// namePlaceholders are values shown in place of a hidden or missing name.
var namePlaceholders = map[string]bool{
	"unknown":         true,
	"not specified":   true,
	"linkedin member": true,
	"n/a":             true,
}

// employerDenyList holds values known to come from mis-extraction.
var employerDenyList = map[string]bool{
	"not specified": true,
	strings.ToLower(prospect.OpenToWorkEmployer): true,
	"langchain": true,
}

// Service implements prospect.Enricher and prospect.AccountChecker.
type Service struct {
	Lookup      prospect.LookupService
	Credentials prospect.CredentialStore
	Logger      *slog.Logger
}

// Enrich validates profile and walks the strategy ladder.
func (s *Service) Enrich(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
	apiKey, err := s.Credentials.Credential(ctx)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, prospect.Errorf(prospect.ENOCREDENTIAL, "No lookup API key configured. Set one with `prospect key set`.")
	}

	query, err := Query(profile)
	if err != nil {
		return nil, err
	}

	contact := &prospect.Contact{Query: query}
	for _, step := range []struct {
		strategy prospect.Strategy
		run      func(context.Context, string, *prospect.Contact) (bool, error)
	}{
		{prospect.StrategyFinder, s.find},
		{prospect.StrategyDomainSearch, s.searchDomain},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := step.run(ctx, apiKey, contact)
		switch {
		case err == nil:
			if found {
				contact.Strategy = step.strategy
				return contact, nil
			}
		case prospect.IsFatal(err):
			return nil, err
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			s.logger().Warn("lookup strategy failed",
				"strategy", step.strategy,
				"key", query.Key(),
				"error", err)
			contact.Attempts[len(contact.Attempts)-1].Err = prospect.ErrorMessage(err)
		}
	}
	return contact, nil
}

// Query validates profile and derives the search parameters. It returns
// EMISSINGNAME or EMISSINGCOMPANY when the profile cannot be searched.
func Query(profile *prospect.Profile) (prospect.SearchQuery, error) {
	if profile == nil || !usableName(profile.FullName) {
		return prospect.SearchQuery{}, prospect.Errorf(prospect.EMISSINGNAME, "Missing name for email lookup. Reload the profile page and extract again.")
	}
	first, last := SplitName(profile.FullName)
	q := prospect.SearchQuery{FirstName: first, LastName: last}

	employer := strings.TrimSpace(profile.Employer)
	domain := strings.ToLower(strings.TrimSpace(profile.Domain))
	switch {
	case UsableEmployer(employer):
		q.Company = employer
		q.Domain = domain
	case domain != "":
		q.Domain = domain
	case strings.EqualFold(employer, "langchain"):
		return prospect.SearchQuery{}, prospect.Errorf(prospect.EMISSINGCOMPANY, "The extracted company %q appears to come from the bio, not current employment.", employer)
	default:
		return prospect.SearchQuery{}, prospect.Errorf(prospect.EMISSINGCOMPANY, "Missing company information for email lookup. This profile may not have current employment data.")
	}
	return q, nil
}

// SplitName splits a full name into first and last name. Middle names are
// ignored; a single-word name has no last name.
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[len(parts)-1]
	}
}

// UsableEmployer reports whether employer can be used as a search key.
func UsableEmployer(employer string) bool {
	employer = strings.TrimSpace(employer)
	return len(employer) >= MinEmployerLength && !employerDenyList[strings.ToLower(employer)]
}

func usableName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !namePlaceholders[strings.ToLower(name)]
}

// find runs the finder keyed by company, or by domain when no company is usable.
func (s *Service) find(ctx context.Context, apiKey string, c *prospect.Contact) (bool, error) {
	c.Attempts = append(c.Attempts, prospect.Attempt{Strategy: prospect.StrategyFinder})
	q := prospect.FinderQuery{FirstName: c.Query.FirstName, LastName: c.Query.LastName}
	if c.Query.Company != "" {
		q.Company = c.Query.Company
	} else {
		q.Domain = c.Query.Domain
	}
	res, err := s.Lookup.FindEmail(ctx, apiKey, q)
	if err != nil {
		return false, err
	}
	if res == nil {
		return false, nil
	}
	if c.Query.Domain == "" {
		c.Query.Domain = strings.ToLower(res.Domain)
	}
	if res.Email == "" {
		return false, nil
	}

	c.Email = res.Email
	if res.Score != nil {
		c.Confidence = *res.Score
	}
	c.Company = res.Company
	c.Position = res.Position
	switch {
	case c.Query.LastName == "":
		c.Source = prospect.SourceNameOnly
	case q.Company == "":
		c.Source = prospect.SourceDomainOnly
	default:
		c.Source = prospect.SourceExact
	}
	return true, nil
}

// searchDomain scans the known addresses at the domain for one whose local
// part carries the person's name.
func (s *Service) searchDomain(ctx context.Context, apiKey string, c *prospect.Contact) (bool, error) {
	domain := c.Query.Domain
	if domain == "" {
		domain = extract.DeriveDomain(c.Query.Company)
	}
	if domain == "" {
		return false, nil
	}
	c.Attempts = append(c.Attempts, prospect.Attempt{Strategy: prospect.StrategyDomainSearch})
	c.Query.Domain = domain

	emails, err := s.Lookup.SearchDomain(ctx, apiKey, domain, DomainSearchLimit)
	if err != nil {
		return false, err
	}
	m, ok := Match(emails, c.Query.FirstName, c.Query.LastName)
	if !ok {
		return false, nil
	}
	c.Email = m.Email.Value
	c.Confidence = m.Confidence
	c.Source = m.Source
	c.Position = m.Email.Position
	return true, nil
}

// DomainMatch is an address picked from a domain search.
type DomainMatch struct {
	Email      prospect.DomainEmail
	Source     prospect.MatchSource
	Confidence int
}

// Match picks the best address for the person from a domain search. An
// address whose local part carries both names (or the first initial and the
// last name, as in "j.doe") is an exact match and is preferred over one
// carrying either name alone. Single-word names can only match partially
// and are reported as name-only.
func Match(emails []prospect.DomainEmail, firstName, lastName string) (DomainMatch, bool) {
	first := strings.ToLower(firstName)
	last := strings.ToLower(lastName)

	if last != "" {
		for _, e := range emails {
			local := localPart(e.Value)
			if !strings.Contains(local, last) {
				continue
			}
			rest := strings.Trim(strings.Replace(local, last, "", 1), "._-")
			if first != "" && (strings.Contains(local, first) || rest == initial(first)) {
				return DomainMatch{Email: e, Source: prospect.SourceExact, Confidence: confidence(e.Confidence, ExactConfidenceFloor, false)}, true
			}
		}
	}

	for _, e := range emails {
		local := localPart(e.Value)
		if (len(first) >= 2 && strings.Contains(local, first)) || (len(last) >= 2 && strings.Contains(local, last)) {
			source := prospect.SourcePartial
			if last == "" {
				source = prospect.SourceNameOnly
			}
			return DomainMatch{Email: e, Source: source, Confidence: confidence(e.Confidence, PartialConfidenceFloor, true)}, true
		}
	}
	return DomainMatch{}, false
}

// confidence returns the reported confidence, or floor when none was
// reported. With atLeast the floor is also a lower bound.
func confidence(reported *int, floor int, atLeast bool) int {
	if reported == nil || *reported == 0 {
		return floor
	}
	if atLeast && *reported < floor {
		return floor
	}
	return *reported
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}

func localPart(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	return local
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
