package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/mock"
	pslog "github.com/fwojciec/prospect/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEnricher_Enrich(t *testing.T) {
	t.Parallel()

	t.Run("logs the match", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Enricher{
			EnrichFn: func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
				return &prospect.Contact{
					Email:      "jane@acme.com",
					Confidence: 90,
					Source:     prospect.SourceExact,
					Strategy:   prospect.StrategyFinder,
					Query:      prospect.SearchQuery{FirstName: "Jane", LastName: "Doe", Company: "Acme"},
				}, nil
			},
		}

		e := pslog.NewLoggingEnricher(inner, logger)
		contact, err := e.Enrich(context.Background(), &prospect.Profile{FullName: "Jane Doe"})

		require.NoError(t, err)
		assert.True(t, contact.Found())
		output := buf.String()
		assert.Contains(t, output, "enrich")
		assert.Contains(t, output, `name="Jane Doe"`)
		assert.Contains(t, output, "found=true")
		assert.Contains(t, output, "strategy=email-finder")
		assert.Contains(t, output, "source=exact")
		assert.Contains(t, output, "confidence=90")
	})

	t.Run("logs the error code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Enricher{
			EnrichFn: func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
				return nil, prospect.Errorf(prospect.EMISSINGNAME, "Missing name")
			},
		}

		e := pslog.NewLoggingEnricher(inner, logger)
		_, err := e.Enrich(context.Background(), nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "found=false")
		assert.Contains(t, output, "code=missing_name")
	})
}

func TestLoggingProfileReader_Read(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ProfileReader{
		ReadFn: func(ctx context.Context, url string) (*prospect.Profile, error) {
			return &prospect.Profile{FullName: "Jane Doe", Title: "Engineer"}, nil
		},
	}

	r := pslog.NewLoggingProfileReader(inner, logger)
	profile, err := r.Read(context.Background(), "https://www.linkedin.com/in/jane-doe")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
	output := buf.String()
	assert.Contains(t, output, "read profile")
	assert.Contains(t, output, "fields=2")
}
