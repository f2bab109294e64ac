package enrich

import (
	"context"

	"github.com/fwojciec/prospect"
)

// CheckAccount reports plan and quota usage for apiKey. Problems with the key
// are reported in the returned Account rather than as errors; only a
// cancelled context is returned as an error.
func (s *Service) CheckAccount(ctx context.Context, apiKey string) (*prospect.Account, error) {
	if !prospect.ValidCredentialFormat(apiKey) {
		return &prospect.Account{Reason: "invalid API key format"}, nil
	}
	account, err := s.Lookup.Account(ctx, apiKey)
	switch {
	case err == nil:
		account.Valid = true
		return account, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case prospect.ErrorCode(err) == prospect.EUNAUTHORIZED:
		return &prospect.Account{Reason: "invalid API key"}, nil
	default:
		s.logger().Warn("account check failed", "key", prospect.RedactCredential(apiKey), "error", err)
		return &prospect.Account{Reason: prospect.ErrorMessage(err)}, nil
	}
}

// SaveCredential checks apiKey against the lookup API and stores it when the
// API accepts it. It returns EINVALID for a malformed key and EUNAUTHORIZED
// for a key the API rejects.
func (s *Service) SaveCredential(ctx context.Context, apiKey string) (*prospect.Account, error) {
	if !prospect.ValidCredentialFormat(apiKey) {
		return nil, prospect.Errorf(prospect.EINVALID, "API key must be at least %d letters and digits.", prospect.MinCredentialLength)
	}
	account, err := s.CheckAccount(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if !account.Valid {
		return account, prospect.Errorf(prospect.EUNAUTHORIZED, "API key was rejected: %s", account.Reason)
	}
	if err := s.Credentials.SetCredential(ctx, apiKey); err != nil {
		return nil, err
	}
	return account, nil
}
