// Package prometheus records prospect metrics with
// github.com/prometheus/client_golang.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for counters.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeOK       = "ok"
)

// Metrics holds the collectors.
type Metrics struct {
	registry *prometheus.Registry

	enrichments     *prometheus.CounterVec
	enrichDuration  prometheus.Histogram
	lookupRequests  *prometheus.CounterVec
	lookupDuration  *prometheus.HistogramVec
	profileReads    *prometheus.CounterVec
	profileFields   prometheus.Histogram
	messageRequests *prometheus.CounterVec
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace sets the metric name prefix. Defaults to "prospect".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithHistogramBuckets sets the latency buckets in seconds.
func WithHistogramBuckets(b []float64) Option {
	return func(o *options) {
		o.buckets = b
	}
}

// NewMetrics creates Metrics registered on a fresh registry.
func NewMetrics(opts ...Option) *Metrics {
	o := options{namespace: "prospect", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&o)
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		enrichments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "enrichments_total",
			Help:      "Enrichment calls by outcome (found, not_found or error code).",
		}, []string{"outcome", "strategy"}),
		enrichDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "enrich_duration_seconds",
			Help:      "Duration of enrichment calls.",
			Buckets:   o.buckets,
		}),
		lookupRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "lookup_requests_total",
			Help:      "Lookup API requests by endpoint and outcome (ok or error code).",
		}, []string{"endpoint", "outcome"}),
		lookupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of lookup API requests.",
			Buckets:   o.buckets,
		}, []string{"endpoint"}),
		profileReads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "profile_reads_total",
			Help:      "Profile page reads by outcome (ok or error code).",
		}, []string{"outcome"}),
		profileFields: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "profile_fields",
			Help:      "Number of fields populated per extracted profile.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		}),
		messageRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "message_requests_total",
			Help:      "Message protocol requests by action and outcome (ok or error code).",
		}, []string{"action", "outcome"}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveMessage counts a message protocol request.
func (m *Metrics) ObserveMessage(action prospect.Action, err error) {
	m.messageRequests.WithLabelValues(string(action), outcome(err)).Inc()
}

// ObserveProfile records an extracted profile.
func (m *Metrics) ObserveProfile(profile *prospect.Profile, err error) {
	m.profileReads.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.profileFields.Observe(float64(profile.Populated()))
	}
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return prospect.ErrorCode(err)
}

// Ensure the decorators implement their interfaces.
var (
	_ prospect.Enricher      = (*Enricher)(nil)
	_ prospect.LookupService = (*LookupService)(nil)
	_ prospect.ProfileReader = (*ProfileReader)(nil)
)

// Enricher records metrics for a wrapped Enricher.
type Enricher struct {
	next    prospect.Enricher
	metrics *Metrics
}

// NewEnricher creates a new Enricher.
func NewEnricher(next prospect.Enricher, m *Metrics) *Enricher {
	return &Enricher{next: next, metrics: m}
}

// Enrich delegates to the wrapped enricher and records the outcome.
func (e *Enricher) Enrich(ctx context.Context, profile *prospect.Profile) (contact *prospect.Contact, err error) {
	defer func(begin time.Time) {
		e.metrics.enrichDuration.Observe(time.Since(begin).Seconds())
		switch {
		case err != nil:
			e.metrics.enrichments.WithLabelValues(prospect.ErrorCode(err), "").Inc()
		case contact.Found():
			e.metrics.enrichments.WithLabelValues(OutcomeFound, string(contact.Strategy)).Inc()
		default:
			e.metrics.enrichments.WithLabelValues(OutcomeNotFound, "").Inc()
		}
	}(time.Now())
	return e.next.Enrich(ctx, profile)
}

// LookupService records metrics for a wrapped LookupService.
type LookupService struct {
	next    prospect.LookupService
	metrics *Metrics
}

// NewLookupService creates a new LookupService.
func NewLookupService(next prospect.LookupService, m *Metrics) *LookupService {
	return &LookupService{next: next, metrics: m}
}

func (s *LookupService) observe(endpoint string, begin time.Time, err error) {
	s.metrics.lookupDuration.WithLabelValues(endpoint).Observe(time.Since(begin).Seconds())
	s.metrics.lookupRequests.WithLabelValues(endpoint, outcome(err)).Inc()
}

// FindEmail delegates to the wrapped service and records the request.
func (s *LookupService) FindEmail(ctx context.Context, apiKey string, q prospect.FinderQuery) (_ *prospect.FinderResult, err error) {
	defer func(begin time.Time) { s.observe("email-finder", begin, err) }(time.Now())
	return s.next.FindEmail(ctx, apiKey, q)
}

// SearchDomain delegates to the wrapped service and records the request.
func (s *LookupService) SearchDomain(ctx context.Context, apiKey string, domain string, limit int) (_ []prospect.DomainEmail, err error) {
	defer func(begin time.Time) { s.observe("domain-search", begin, err) }(time.Now())
	return s.next.SearchDomain(ctx, apiKey, domain, limit)
}

// Account delegates to the wrapped service and records the request.
func (s *LookupService) Account(ctx context.Context, apiKey string) (_ *prospect.Account, err error) {
	defer func(begin time.Time) { s.observe("account", begin, err) }(time.Now())
	return s.next.Account(ctx, apiKey)
}

// ProfileReader records metrics for a wrapped ProfileReader.
type ProfileReader struct {
	next    prospect.ProfileReader
	metrics *Metrics
}

// NewProfileReader creates a new ProfileReader.
func NewProfileReader(next prospect.ProfileReader, m *Metrics) *ProfileReader {
	return &ProfileReader{next: next, metrics: m}
}

// Read delegates to the wrapped reader and records the outcome.
func (r *ProfileReader) Read(ctx context.Context, url string) (profile *prospect.Profile, err error) {
	defer func() { r.metrics.ObserveProfile(profile, err) }()
	return r.next.Read(ctx, url)
}
