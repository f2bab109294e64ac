// Package hunter implements prospect.LookupService against the Hunter
// contact-lookup HTTP API.
package hunter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/prospect"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.hunter.io/v2"

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 10 * time.Second

// DefaultRPS is the default request rate toward the API.
const DefaultRPS = 2

// Ensure Client implements prospect.LookupService at compile time.
var _ prospect.LookupService = (*Client)(nil)

// Client is an API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root. Used to point the client at a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimit limits outgoing requests to rps per second. A non-positive
// rps disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(DefaultRPS, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the shape of every API response.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

type apiError struct {
	ID      string `json:"id"`
	Code    int    `json:"code"`
	Details string `json:"details"`
}

// get calls the endpoint and decodes the data member of the response into v.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return prospect.Errorf(prospect.ELOOKUP, "Lookup API request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return prospect.Errorf(prospect.ELOOKUP, "Lookup API unreachable: %v", redact(err, params))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return prospect.Errorf(prospect.ELOOKUP, "Lookup API read: %v", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return prospect.Errorf(prospect.EUNAUTHORIZED, "Invalid lookup API key")
	case http.StatusTooManyRequests:
		return prospect.Errorf(prospect.ERATELIMIT, "Lookup API rate limit exceeded")
	default:
		return prospect.Errorf(prospect.ELOOKUP, "Lookup API error: %s", details(env, resp.StatusCode))
	}

	if decodeErr != nil {
		return prospect.Errorf(prospect.ELOOKUP, "Lookup API returned malformed JSON: %v", decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return prospect.Errorf(prospect.ELOOKUP, "Lookup API returned unexpected data: %v", err)
	}
	return nil
}

func details(env envelope, status int) string {
	if len(env.Errors) > 0 && env.Errors[0].Details != "" {
		return env.Errors[0].Details
	}
	return "HTTP " + strconv.Itoa(status)
}

// redact removes the API key from transport errors, which carry the URL.
func redact(err error, params url.Values) string {
	msg := err.Error()
	if key := params.Get("api_key"); key != "" {
		msg = strings.ReplaceAll(msg, key, prospect.RedactCredential(key))
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return "request timed out"
	}
	return msg
}

// finderData is the data member of an email-finder response. Older
// responses report confidence instead of score.
type finderData struct {
	Email      string   `json:"email"`
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
	Domain     string   `json:"domain"`
	Company    string   `json:"company"`
	Position   string   `json:"position"`
}

// FindEmail searches for a single person's address.
func (c *Client) FindEmail(ctx context.Context, apiKey string, q prospect.FinderQuery) (*prospect.FinderResult, error) {
	params := url.Values{}
	if q.Company != "" {
		params.Set("company", q.Company)
	}
	if q.Domain != "" {
		params.Set("domain", q.Domain)
	}
	params.Set("first_name", q.FirstName)
	params.Set("last_name", q.LastName)
	params.Set("api_key", apiKey)

	var d finderData
	if err := c.get(ctx, "email-finder", params, &d); err != nil {
		return nil, err
	}
	score := d.Score
	if score == nil {
		score = d.Confidence
	}
	return &prospect.FinderResult{
		Email:    d.Email,
		Score:    toInt(score),
		Domain:   d.Domain,
		Company:  d.Company,
		Position: d.Position,
	}, nil
}

type domainData struct {
	Domain string        `json:"domain"`
	Emails []domainEmail `json:"emails"`
}

type domainEmail struct {
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Position   string   `json:"position"`
}

// SearchDomain returns up to limit known addresses at domain.
func (c *Client) SearchDomain(ctx context.Context, apiKey string, domain string, limit int) ([]prospect.DomainEmail, error) {
	params := url.Values{}
	params.Set("domain", domain)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	params.Set("api_key", apiKey)

	var d domainData
	if err := c.get(ctx, "domain-search", params, &d); err != nil {
		return nil, err
	}
	emails := make([]prospect.DomainEmail, 0, len(d.Emails))
	for _, e := range d.Emails {
		if e.Value == "" {
			continue
		}
		emails = append(emails, prospect.DomainEmail{
			Value:      e.Value,
			Confidence: toInt(e.Confidence),
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Position:   e.Position,
		})
	}
	return emails, nil
}

type usage struct {
	Used      float64 `json:"used"`
	Available float64 `json:"available"`
}

type accountData struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PlanName  string  `json:"plan_name"`
	PlanLevel float64 `json:"plan_level"`
	ResetDate string  `json:"reset_date"`
	TeamID    float64 `json:"team_id"`
	Plan      *struct {
		Name string `json:"name"`
	} `json:"plan"`
	Requests *struct {
		Searches      *usage `json:"searches"`
		Verifications *usage `json:"verifications"`
		Credits       *usage `json:"credits"`
	} `json:"requests"`
	Calls *usage `json:"calls"`
}

// Account returns the account summary for the key. Responses from before
// per-kind quotas were introduced report a single calls counter, which is
// used for searches.
func (c *Client) Account(ctx context.Context, apiKey string) (*prospect.Account, error) {
	params := url.Values{}
	params.Set("api_key", apiKey)

	var d accountData
	if err := c.get(ctx, "account", params, &d); err != nil {
		return nil, err
	}

	a := &prospect.Account{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		PlanName:  d.PlanName,
		PlanLevel: int(d.PlanLevel),
		ResetDate: d.ResetDate,
		TeamID:    int(d.TeamID),
	}
	if a.PlanName == "" && d.Plan != nil {
		a.PlanName = d.Plan.Name
	}
	if d.Requests != nil {
		a.Searches = toUsage(d.Requests.Searches)
		a.Verifications = toUsage(d.Requests.Verifications)
		a.Credits = toUsage(d.Requests.Credits)
	}
	if (d.Requests == nil || d.Requests.Searches == nil) && d.Calls != nil {
		a.Searches = toUsage(d.Calls)
	}
	return a, nil
}

func toUsage(u *usage) prospect.Usage {
	if u == nil {
		return prospect.Usage{}
	}
	return prospect.Usage{Used: int(u.Used), Available: int(u.Available)}
}

func toInt(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
