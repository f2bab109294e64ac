package mock

import (
	"context"

	"github.com/fwojciec/prospect"
)

var (
	_ prospect.Enricher        = (*Enricher)(nil)
	_ prospect.LookupService   = (*LookupService)(nil)
	_ prospect.AccountChecker  = (*AccountChecker)(nil)
	_ prospect.CredentialStore = (*CredentialStore)(nil)
)

// Enricher is a mock implementation of prospect.Enricher.
type Enricher struct {
	EnrichFn func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error)
}

func (e *Enricher) Enrich(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
	return e.EnrichFn(ctx, profile)
}

// LookupService is a mock implementation of prospect.LookupService.
type LookupService struct {
	FindEmailFn    func(ctx context.Context, apiKey string, q prospect.FinderQuery) (*prospect.FinderResult, error)
	SearchDomainFn func(ctx context.Context, apiKey string, domain string, limit int) ([]prospect.DomainEmail, error)
	AccountFn      func(ctx context.Context, apiKey string) (*prospect.Account, error)
}

func (s *LookupService) FindEmail(ctx context.Context, apiKey string, q prospect.FinderQuery) (*prospect.FinderResult, error) {
	return s.FindEmailFn(ctx, apiKey, q)
}

func (s *LookupService) SearchDomain(ctx context.Context, apiKey string, domain string, limit int) ([]prospect.DomainEmail, error) {
	return s.SearchDomainFn(ctx, apiKey, domain, limit)
}

func (s *LookupService) Account(ctx context.Context, apiKey string) (*prospect.Account, error) {
	return s.AccountFn(ctx, apiKey)
}

// AccountChecker is a mock implementation of prospect.AccountChecker.
type AccountChecker struct {
	CheckAccountFn func(ctx context.Context, apiKey string) (*prospect.Account, error)
}

func (c *AccountChecker) CheckAccount(ctx context.Context, apiKey string) (*prospect.Account, error) {
	return c.CheckAccountFn(ctx, apiKey)
}

// CredentialStore is a mock implementation of prospect.CredentialStore.
type CredentialStore struct {
	CredentialFn      func(ctx context.Context) (string, error)
	SetCredentialFn   func(ctx context.Context, apiKey string) error
	ClearCredentialFn func(ctx context.Context) error
}

func (s *CredentialStore) Credential(ctx context.Context) (string, error) {
	return s.CredentialFn(ctx)
}

func (s *CredentialStore) SetCredential(ctx context.Context, apiKey string) error {
	return s.SetCredentialFn(ctx, apiKey)
}

func (s *CredentialStore) ClearCredential(ctx context.Context) error {
	return s.ClearCredentialFn(ctx)
}
