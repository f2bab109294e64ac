package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/enrich"
	phttp "github.com/fwojciec/prospect/http"
	"github.com/fwojciec/prospect/mock"
	"github.com/fwojciec/prospect/prometheus"
	"github.com/fwojciec/prospect/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileURL = "https://www.linkedin.com/in/jane-doe/"

func janeProfile() *prospect.Profile {
	return &prospect.Profile{
		FullName: "Jane Doe",
		Title:    "Staff Engineer",
		Employer: "Acme",
		URL:      profileURL,
	}
}

func TestServer_Handle(t *testing.T) {
	t.Parallel()

	t.Run("ping reports active and generates an id", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionPing})

		assert.True(t, env.Success)
		assert.NotEmpty(t, env.ID)
		assert.Equal(t, map[string]string{"message": "active"}, env.Data)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{}
		env := s.Handle(context.Background(), prospect.Request{ID: "req-1", Action: prospect.ActionPing})

		assert.Equal(t, "req-1", env.ID)
	})

	t.Run("unknown action fails with EINVALID", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{}
		env := s.Handle(context.Background(), prospect.Request{Action: "dance"})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.EINVALID, env.Code)
		assert.Equal(t, "unknown action", env.Error)
	})

	t.Run("extracts a profile by url and caches it", func(t *testing.T) {
		t.Parallel()

		reads := 0
		s := &phttp.Server{
			Reader: &mock.ProfileReader{
				ReadFn: func(ctx context.Context, url string) (*prospect.Profile, error) {
					reads++
					return janeProfile(), nil
				},
			},
			Cache: session.NewCache(time.Minute),
		}
		req := prospect.Request{Action: prospect.ActionExtractProfile, URL: profileURL}

		first := s.Handle(context.Background(), req)
		second := s.Handle(context.Background(), req)

		require.True(t, first.Success)
		require.True(t, second.Success)
		assert.Equal(t, "Jane Doe", second.Data.(*prospect.Profile).FullName)
		assert.Equal(t, 1, reads)
	})

	t.Run("extracts a profile from html sent with the request", func(t *testing.T) {
		t.Parallel()

		var parsedURL string
		s := &phttp.Server{
			Parser: &mock.DocumentParser{
				ParseFn: func(html string, url string) (prospect.Document, error) {
					parsedURL = url
					return nil, nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(doc prospect.Document) (*prospect.Profile, error) {
					return &prospect.Profile{FullName: "Jane Doe"}, nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action: prospect.ActionExtractProfile,
			URL:    profileURL,
			HTML:   "<html></html>",
		})

		require.True(t, env.Success)
		assert.Equal(t, profileURL, parsedURL)
		assert.Equal(t, profileURL, env.Data.(*prospect.Profile).URL)
	})

	t.Run("extract without url or html fails with EINVALID", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionExtractProfile})

		assert.Equal(t, prospect.EINVALID, env.Code)
	})

	t.Run("extraction failure is reported with its code", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{
			Reader: &mock.ProfileReader{
				ReadFn: func(ctx context.Context, url string) (*prospect.Profile, error) {
					return nil, prospect.Errorf(prospect.EEXTRACTION, "Could not read the profile.")
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionExtractProfile, URL: profileURL})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.EEXTRACTION, env.Code)
		assert.Equal(t, "Could not read the profile.", env.Error)
	})

	t.Run("superseded extraction is discarded", func(t *testing.T) {
		t.Parallel()

		tracker := session.NewTracker(nil)
		s := &phttp.Server{
			Tracker: tracker,
			Reader: &mock.ProfileReader{
				ReadFn: func(ctx context.Context, url string) (*prospect.Profile, error) {
					tracker.Begin("tab-1", url)
					return janeProfile(), nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action: prospect.ActionExtractProfile,
			Tab:    "tab-1",
			URL:    profileURL,
		})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.ECONFLICT, env.Code)
	})

	t.Run("navigation supersedes the request in flight", func(t *testing.T) {
		t.Parallel()

		var s *phttp.Server
		s = &phttp.Server{
			Tracker: session.NewTracker(nil),
			Reader: &mock.ProfileReader{
				ReadFn: func(ctx context.Context, url string) (*prospect.Profile, error) {
					nav := s.Handle(ctx, prospect.Request{
						Action: prospect.ActionNavigate,
						Tab:    "tab-1",
						URL:    "https://www.linkedin.com/in/john-roe/",
					})
					require.True(t, nav.Success)
					return janeProfile(), nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action: prospect.ActionExtractProfile,
			Tab:    "tab-1",
			URL:    profileURL,
		})

		assert.Equal(t, prospect.ECONFLICT, env.Code)
	})

	t.Run("tab events require a tab", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{Tracker: session.NewTracker(nil)}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionCloseTab})

		assert.Equal(t, prospect.EINVALID, env.Code)
	})

	t.Run("fetches a contact for the profile", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{
			Enricher: &mock.Enricher{
				EnrichFn: func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
					assert.Equal(t, "Jane Doe", profile.FullName)
					return &prospect.Contact{Email: "jane@acme.com", Confidence: 91}, nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action:  prospect.ActionFetchContact,
			Profile: janeProfile(),
		})

		require.True(t, env.Success)
		assert.Equal(t, "jane@acme.com", env.Data.(*prospect.Contact).Email)
	})

	t.Run("fetch falls back to the cached profile for the url", func(t *testing.T) {
		t.Parallel()

		cache := session.NewCache(time.Minute)
		cache.Put(profileURL, janeProfile())
		s := &phttp.Server{
			Cache: cache,
			Enricher: &mock.Enricher{
				EnrichFn: func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
					return &prospect.Contact{Email: "jane@acme.com"}, nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionFetchContact, URL: profileURL})

		assert.True(t, env.Success)
	})

	t.Run("fetch without a profile fails", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{Enricher: &enrich.Service{
			Lookup: &mock.LookupService{},
			Credentials: &mock.CredentialStore{
				CredentialFn: func(ctx context.Context) (string, error) { return "key", nil },
			},
		}}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionFetchContact})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.EMISSINGNAME, env.Code)
	})

	t.Run("fetch without a profile reports a missing credential first", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{Enricher: &enrich.Service{
			Lookup: &mock.LookupService{},
			Credentials: &mock.CredentialStore{
				CredentialFn: func(ctx context.Context) (string, error) { return "", nil },
			},
		}}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionFetchContact})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.ENOCREDENTIAL, env.Code)
	})

	t.Run("not found carries the contact and a readable message", func(t *testing.T) {
		t.Parallel()

		contact := &prospect.Contact{
			Query: prospect.SearchQuery{FirstName: "Jane", LastName: "Doe", Company: "Acme"},
		}
		s := &phttp.Server{
			Enricher: &mock.Enricher{
				EnrichFn: func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
					return contact, nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action:  prospect.ActionFetchContact,
			Profile: janeProfile(),
		})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.ENOTFOUND, env.Code)
		assert.Equal(t, "No email found for Jane Doe at Acme", env.Error)
		assert.Same(t, contact, env.Data)
	})

	t.Run("enrichment errors pass through", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{
			Enricher: &mock.Enricher{
				EnrichFn: func(ctx context.Context, profile *prospect.Profile) (*prospect.Contact, error) {
					return nil, prospect.Errorf(prospect.ERATELIMIT, "Lookup API rate limit exceeded")
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action:  prospect.ActionFetchContact,
			Profile: janeProfile(),
		})

		assert.Equal(t, prospect.ERATELIMIT, env.Code)
		assert.Equal(t, "Lookup API rate limit exceeded", env.Error)
	})

	t.Run("valid credential returns the account", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{
			Accounts: &mock.AccountChecker{
				CheckAccountFn: func(ctx context.Context, apiKey string) (*prospect.Account, error) {
					assert.Equal(t, "abc123def456", apiKey)
					return &prospect.Account{Valid: true, PlanName: "Free"}, nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{
			Action: prospect.ActionTestCredential,
			APIKey: "abc123def456",
		})

		require.True(t, env.Success)
		assert.Equal(t, "Free", env.Data.(*prospect.Account).PlanName)
	})

	t.Run("rejected credential fails with the reason", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{
			Accounts: &mock.AccountChecker{
				CheckAccountFn: func(ctx context.Context, apiKey string) (*prospect.Account, error) {
					return &prospect.Account{Reason: "invalid API key"}, nil
				},
			},
		}
		env := s.Handle(context.Background(), prospect.Request{Action: prospect.ActionTestCredential, APIKey: "x"})

		assert.False(t, env.Success)
		assert.Equal(t, prospect.EUNAUTHORIZED, env.Code)
		assert.Equal(t, "invalid API key", env.Error)
		assert.NotNil(t, env.Data)
	})
}

func TestServer_Handler(t *testing.T) {
	t.Parallel()

	t.Run("answers messages as JSON envelopes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer((&phttp.Server{}).Handler())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/message", "application/json", strings.NewReader(`{"id":"1","action":"ping"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		var env struct {
			ID      string            `json:"id"`
			Success bool              `json:"success"`
			Data    map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "1", env.ID)
		assert.True(t, env.Success)
		assert.Equal(t, "active", env.Data["message"])
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer((&phttp.Server{}).Handler())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/message", "application/json", strings.NewReader(`{`))
		require.NoError(t, err)
		defer resp.Body.Close()

		var env prospect.Envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, prospect.EINVALID, env.Code)
	})

	t.Run("rejects other methods", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer((&phttp.Server{}).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/message")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("serves metrics for handled messages", func(t *testing.T) {
		t.Parallel()

		s := &phttp.Server{Metrics: prometheus.NewMetrics()}
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		body, _ := json.Marshal(prospect.Request{Action: prospect.ActionPing})
		resp, err := http.Post(srv.URL+"/message", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()

		resp, err = http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `prospect_message_requests_total{action="ping",outcome="ok"} 1`)
	})
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- (&phttp.Server{}).ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
