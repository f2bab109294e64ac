package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prospect"
)

// Ensure the decorators implement their interfaces.
var (
	_ prospect.Enricher      = (*LoggingEnricher)(nil)
	_ prospect.ProfileReader = (*LoggingProfileReader)(nil)
)

// LoggingEnricher wraps an Enricher with logging.
type LoggingEnricher struct {
	next   prospect.Enricher
	logger *slog.Logger
}

// NewLoggingEnricher creates a new LoggingEnricher.
func NewLoggingEnricher(next prospect.Enricher, logger *slog.Logger) *LoggingEnricher {
	return &LoggingEnricher{next: next, logger: logger}
}

// Enrich delegates to the wrapped enricher and logs the outcome.
func (e *LoggingEnricher) Enrich(ctx context.Context, profile *prospect.Profile) (contact *prospect.Contact, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"name", profileName(profile),
			"found", contact.Found(),
			"duration", time.Since(begin),
		}
		if contact != nil {
			attrs = append(attrs,
				"key", contact.Query.Key(),
				"strategy", contact.Strategy,
				"source", contact.Source,
				"confidence", contact.Confidence,
			)
		}
		if err != nil {
			attrs = append(attrs, "code", prospect.ErrorCode(err), "err", err)
		}
		e.logger.Info("enrich", attrs...)
	}(time.Now())
	return e.next.Enrich(ctx, profile)
}

// LoggingProfileReader wraps a ProfileReader with logging.
type LoggingProfileReader struct {
	next   prospect.ProfileReader
	logger *slog.Logger
}

// NewLoggingProfileReader creates a new LoggingProfileReader.
func NewLoggingProfileReader(next prospect.ProfileReader, logger *slog.Logger) *LoggingProfileReader {
	return &LoggingProfileReader{next: next, logger: logger}
}

// Read delegates to the wrapped reader and logs how much was extracted.
func (r *LoggingProfileReader) Read(ctx context.Context, url string) (profile *prospect.Profile, err error) {
	defer func(begin time.Time) {
		r.logger.Info("read profile",
			"url", url,
			"fields", profile.Populated(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Read(ctx, url)
}

func profileName(p *prospect.Profile) string {
	if p == nil {
		return ""
	}
	return p.FullName
}
