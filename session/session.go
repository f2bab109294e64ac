// Package session holds short-lived, request-scoped state for the message
// server: extracted profiles cached per page, and the request currently in
// flight for each tab.
package session

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/prospect"
	"github.com/google/uuid"
)

// DefaultTTL is how long a cached profile stays valid.
const DefaultTTL = 5 * time.Minute

// Identity returns a stable identity for the page at rawURL. URLs that differ
// only in scheme, host case, query, fragment or a trailing slash identify the
// same page.
func Identity(rawURL string) uint64 {
	return xxhash.Sum64String(Canonical(rawURL))
}

// Canonical returns the canonical form of rawURL used for Identity.
func Canonical(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.TrimSpace(rawURL), "/")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host + strings.TrimRight(u.EscapedPath(), "/")
}

type entry struct {
	profile prospect.Profile
	expires time.Time
}

// Cache stores the most recent extraction of each page for a bounded time.
// Cached profiles are copied in and out, so callers never share them.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uint64]entry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock sets the clock used for expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a Cache whose entries expire after ttl. A non-positive
// ttl uses DefaultTTL.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uint64]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached profile for the page, if present and not expired.
func (c *Cache) Get(rawURL string) (*prospect.Profile, bool) {
	id := Identity(rawURL)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, id)
		return nil, false
	}
	p := e.profile
	return &p, true
}

// Put caches profile for the page, replacing any earlier extraction.
func (c *Cache) Put(rawURL string, profile *prospect.Profile) {
	if profile == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Identity(rawURL)] = entry{profile: *profile, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the cached profile for the page.
func (c *Cache) Invalidate(rawURL string) {
	c.invalidate(Identity(rawURL))
}

func (c *Cache) invalidate(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of cached entries, including expired ones not yet
// evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type tab struct {
	page    uint64
	request string
}

// Tracker tracks the request in flight for each tab. A newer request, or the
// tab navigating to another page, supersedes the one in flight; the
// superseded result is discarded when it arrives.
type Tracker struct {
	mu    sync.Mutex
	tabs  map[string]tab
	cache *Cache
	newID func() string
}

// NewTracker creates a Tracker. When cache is not nil, navigating a tab away
// from a page drops that page's cached profile.
func NewTracker(cache *Cache) *Tracker {
	return &Tracker{
		tabs:  make(map[string]tab),
		cache: cache,
		newID: uuid.NewString,
	}
}

// Begin records a new request for the tab on the page at rawURL and returns
// its id. Any request already in flight for the tab is superseded.
func (t *Tracker) Begin(tabID, rawURL string) string {
	id := t.newID()
	page := Identity(rawURL)
	t.mu.Lock()
	prev, ok := t.tabs[tabID]
	t.tabs[tabID] = tab{page: page, request: id}
	t.mu.Unlock()
	if ok && prev.page != page && t.cache != nil {
		t.cache.invalidate(prev.page)
	}
	return id
}

// Accept reports whether the result of request may be delivered. It returns
// ECONFLICT when the request was superseded. An accepted request is no
// longer in flight.
func (t *Tracker) Accept(tabID, request string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.tabs[tabID]
	if !ok || cur.request != request {
		return prospect.Errorf(prospect.ECONFLICT, "Request %s was superseded; result discarded.", request)
	}
	cur.request = ""
	t.tabs[tabID] = cur
	return nil
}

// Navigate records that the tab now shows the page at rawURL. Any request in
// flight for the tab is superseded. Moving to a different page also drops the
// previous page's cached profile.
func (t *Tracker) Navigate(tabID, rawURL string) {
	page := Identity(rawURL)
	t.mu.Lock()
	prev, ok := t.tabs[tabID]
	t.tabs[tabID] = tab{page: page}
	t.mu.Unlock()
	if ok && prev.page != page && t.cache != nil {
		t.cache.invalidate(prev.page)
	}
}

// Close forgets the tab.
func (t *Tracker) Close(tabID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tabs, tabID)
}
