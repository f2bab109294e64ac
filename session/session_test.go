package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	janeURL = "https://www.linkedin.com/in/jane-doe/"
	johnURL = "https://www.linkedin.com/in/john-smith/"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	same := []string{
		"https://www.linkedin.com/in/jane-doe/",
		"https://linkedin.com/in/jane-doe",
		"http://WWW.LinkedIn.com/in/jane-doe/?trk=feed#about",
	}
	for _, u := range same {
		assert.Equal(t, session.Identity(same[0]), session.Identity(u), u)
	}
	assert.NotEqual(t, session.Identity(janeURL), session.Identity(johnURL))
	assert.Equal(t, "linkedin.com/in/jane-doe", session.Canonical(same[2]))
}

// clock is a settable test clock.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("returns a copy of the cached profile until it expires", func(t *testing.T) {
		t.Parallel()

		clk := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := session.NewCache(time.Minute, session.WithClock(clk.Now))
		c.Put(janeURL, &prospect.Profile{FullName: "Jane Doe"})

		got, ok := c.Get("https://linkedin.com/in/jane-doe")
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", got.FullName)

		got.FullName = "changed"
		again, ok := c.Get(janeURL)
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", again.FullName)

		clk.Advance(time.Minute)
		_, ok = c.Get(janeURL)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		t.Parallel()

		c := session.NewCache(0)
		c.Put(janeURL, &prospect.Profile{FullName: "Jane Doe"})
		c.Put(johnURL, &prospect.Profile{FullName: "John Smith"})

		c.Invalidate(janeURL)

		_, ok := c.Get(janeURL)
		assert.False(t, ok)
		_, ok = c.Get(johnURL)
		assert.True(t, ok)
	})

	t.Run("nil profiles are not cached", func(t *testing.T) {
		t.Parallel()

		c := session.NewCache(time.Minute)
		c.Put(janeURL, nil)

		assert.Equal(t, 0, c.Len())
	})
}

func TestTracker(t *testing.T) {
	t.Parallel()

	t.Run("accepts the request in flight once", func(t *testing.T) {
		t.Parallel()

		tr := session.NewTracker(nil)
		id := tr.Begin("tab-1", janeURL)

		require.NoError(t, tr.Accept("tab-1", id))
		assert.Equal(t, prospect.ECONFLICT, prospect.ErrorCode(tr.Accept("tab-1", id)))
	})

	t.Run("a newer request supersedes the older one", func(t *testing.T) {
		t.Parallel()

		tr := session.NewTracker(nil)
		first := tr.Begin("tab-1", janeURL)
		second := tr.Begin("tab-1", janeURL)

		assert.NotEqual(t, first, second)
		assert.Equal(t, prospect.ECONFLICT, prospect.ErrorCode(tr.Accept("tab-1", first)))
		assert.NoError(t, tr.Accept("tab-1", second))
	})

	t.Run("tabs are independent", func(t *testing.T) {
		t.Parallel()

		tr := session.NewTracker(nil)
		a := tr.Begin("tab-1", janeURL)
		b := tr.Begin("tab-2", johnURL)

		assert.NoError(t, tr.Accept("tab-1", a))
		assert.NoError(t, tr.Accept("tab-2", b))
	})

	t.Run("navigation discards the result in flight and the old page's cache", func(t *testing.T) {
		t.Parallel()

		cache := session.NewCache(time.Minute)
		cache.Put(janeURL, &prospect.Profile{FullName: "Jane Doe"})
		tr := session.NewTracker(cache)
		id := tr.Begin("tab-1", janeURL)

		tr.Navigate("tab-1", johnURL)

		assert.Equal(t, prospect.ECONFLICT, prospect.ErrorCode(tr.Accept("tab-1", id)))
		_, ok := cache.Get(janeURL)
		assert.False(t, ok)
	})

	t.Run("reloading the same page keeps its cache", func(t *testing.T) {
		t.Parallel()

		cache := session.NewCache(time.Minute)
		cache.Put(janeURL, &prospect.Profile{FullName: "Jane Doe"})
		tr := session.NewTracker(cache)
		tr.Begin("tab-1", janeURL)

		tr.Navigate("tab-1", janeURL+"?trk=reload")

		_, ok := cache.Get(janeURL)
		assert.True(t, ok)
	})

	t.Run("closed tabs accept nothing", func(t *testing.T) {
		t.Parallel()

		tr := session.NewTracker(nil)
		id := tr.Begin("tab-1", janeURL)
		tr.Close("tab-1")

		assert.Error(t, tr.Accept("tab-1", id))
	})
}
