package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prospect"
)

// Ensure LoggingLookupService implements prospect.LookupService.
var _ prospect.LookupService = (*LoggingLookupService)(nil)

// LoggingLookupService wraps a LookupService with logging. Keys are logged
// redacted.
type LoggingLookupService struct {
	next   prospect.LookupService
	logger *slog.Logger
}

// NewLoggingLookupService creates a new LoggingLookupService.
func NewLoggingLookupService(next prospect.LookupService, logger *slog.Logger) *LoggingLookupService {
	return &LoggingLookupService{next: next, logger: logger}
}

// FindEmail delegates to the wrapped service and logs the operation.
func (s *LoggingLookupService) FindEmail(ctx context.Context, apiKey string, q prospect.FinderQuery) (res *prospect.FinderResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("email finder",
			"key", prospect.RedactCredential(apiKey),
			"first_name", q.FirstName,
			"last_name", q.LastName,
			"company", q.Company,
			"domain", q.Domain,
			"found", res != nil && res.Email != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindEmail(ctx, apiKey, q)
}

// SearchDomain delegates to the wrapped service and logs the operation.
func (s *LoggingLookupService) SearchDomain(ctx context.Context, apiKey string, domain string, limit int) (emails []prospect.DomainEmail, err error) {
	defer func(begin time.Time) {
		s.logger.Info("domain search",
			"key", prospect.RedactCredential(apiKey),
			"domain", domain,
			"limit", limit,
			"count", len(emails),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchDomain(ctx, apiKey, domain, limit)
}

// Account delegates to the wrapped service and logs the operation.
func (s *LoggingLookupService) Account(ctx context.Context, apiKey string) (account *prospect.Account, err error) {
	defer func(begin time.Time) {
		s.logger.Info("account",
			"key", prospect.RedactCredential(apiKey),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Account(ctx, apiKey)
}
