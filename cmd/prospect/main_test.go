package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/prospect"
	main "github.com/fwojciec/prospect/cmd/prospect"
	"github.com/fwojciec/prospect/config"
	"github.com/fwojciec/prospect/mock"
	"github.com/fwojciec/prospect/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	profileURL = "https://www.linkedin.com/in/jane-doe/"
	testKey    = "abcdefghij0123456789abcdefghij01"
)

const profilePage = `<html><body><main>
<section class="artdeco-card pv-top-card">
	<div class="pv-text-details__left-panel">
		<h1 class="text-heading-xlarge inline t-24 v-align-middle break-words">Jane Doe</h1>
		<div class="text-body-medium break-words">Building things @ Initech</div>
	</div>
</section>
<section class="artdeco-card">
	<div id="experience" class="pv-profile-card__anchor"></div>
	<ul>
		<li class="artdeco-list__item pvs-list__item--line-separated">
			<a href="https://www.linkedin.com/company/acme-inc/"><img alt="Acme Inc logo"></a>
			<div class="display-flex flex-column">
				<div class="t-bold"><span aria-hidden="true">Staff Engineer</span><span class="visually-hidden">Staff Engineer</span></div>
				<span class="t-14 t-normal"><span aria-hidden="true">Acme Inc · Full-time</span></span>
				<span class="t-14 t-normal t-black--light"><span aria-hidden="true">Jan 2020 - Present · 4 yrs 2 mos</span></span>
			</div>
		</li>
	</ul>
</section>
</main></body></html>`

func testConfig() *config.Config {
	cfg := config.New()
	cfg.DBPath = ":memory:"
	return cfg
}

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no command prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := &main.Main{Config: testConfig()}

		err := m.Run(context.Background(), nil, strings.NewReader(""), stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := &main.Main{Config: testConfig()}

		err := m.Run(context.Background(), []string{"--help"}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "lookup")
	})

	t.Run("extracts a saved page", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "jane.html")
		require.NoError(t, os.WriteFile(path, []byte(profilePage), 0o600))

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := &main.Main{Config: testConfig()}

		err := m.Run(context.Background(), []string{"extract", "--html", path, profileURL}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		var profile prospect.Profile
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &profile))
		assert.Equal(t, "Jane Doe", profile.FullName)
		assert.Equal(t, "Staff Engineer", profile.Title)
		assert.Equal(t, "Acme Inc", profile.Employer)
		assert.Equal(t, profileURL, profile.URL)
	})

	t.Run("saves loaded pages when asked", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := &main.Main{
			Config: testConfig(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return profilePage, nil
				},
			},
		}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--save-pages", dir, "extract", profileURL}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		saved, err := os.ReadFile(filepath.Join(dir, "jane-doe.html"))
		require.NoError(t, err)
		assert.Equal(t, profilePage, string(saved))
		assert.Contains(t, stdout.String(), `"fullName": "Jane Doe"`)
	})

	t.Run("looks up a contact from a loaded page", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		require.NoError(t, sqlite.NewCredentialStore(db).SetCredential(context.Background(), testKey))

		var query prospect.FinderQuery
		m := &main.Main{
			Config: testConfig(),
			DB:     db,
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return profilePage, nil
				},
			},
			Lookup: &mock.LookupService{
				FindEmailFn: func(ctx context.Context, apiKey string, q prospect.FinderQuery) (*prospect.FinderResult, error) {
					query = q
					score := 95
					return &prospect.FinderResult{Email: "jane@acme.com", Score: &score}, nil
				},
			},
		}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"lookup", profileURL}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		var result main.LookupResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "jane@acme.com", result.Contact.Email)
		assert.Equal(t, "Jane", query.FirstName)
		assert.Equal(t, "Doe", query.LastName)
		assert.Equal(t, "Acme Inc", query.Company)
	})

	t.Run("lookup without a page or name is rejected", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{Config: testConfig(), DB: openDB(t)}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"lookup"}, strings.NewReader(""), stdout, stderr)

		assert.Equal(t, prospect.EINVALID, prospect.ErrorCode(err))
	})

	t.Run("lookup without a stored key fails before any request", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{
			Config: testConfig(),
			DB:     openDB(t),
			Lookup: &mock.LookupService{},
		}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"lookup", "--name", "Jane Doe", "--company", "Acme"}, strings.NewReader(""), stdout, stderr)

		assert.Equal(t, prospect.ENOCREDENTIAL, prospect.ErrorCode(err))
	})
}
