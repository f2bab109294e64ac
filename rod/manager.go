package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/prospect"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager owns the Chrome process behind a Fetcher and recycles it
// after a number of pages, since Chrome's memory never returns to baseline
// under sustained load.
//
// Profile pages only render for a signed-in session. Point WithUserDataDir
// at a Chrome profile that holds one; the directory survives recycling.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount atomic.Int64
	maxPages  int64
	dataDir   string
	headless  bool
	mu        sync.Mutex
	closed    atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages before the browser is recycled.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithUserDataDir runs Chrome against an existing profile directory.
func WithUserDataDir(dir string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.dataDir = dir
	}
}

// WithHeadless controls whether Chrome shows a window. A visible window is
// useful for signing in to the profile directory once.
func WithHeadless(headless bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = headless
	}
}

// NewBrowserManager launches Chrome and returns a manager for it.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launch(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Browser returns the current browser, recycling it first when the page
// count has reached the limit. Callers report each processed page with
// IncrementPageCount.
func (bm *BrowserManager) Browser() (*rod.Browser, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() {
		return nil, prospect.Errorf(prospect.EINVALID, "browser is closed")
	}
	if bm.browser == nil {
		if err := bm.launch(); err != nil {
			return nil, err
		}
	} else if bm.pageCount.Load() >= bm.maxPages {
		if err := bm.recycle(); err != nil {
			return nil, err
		}
	}
	return bm.browser, nil
}

// IncrementPageCount records one processed page.
func (bm *BrowserManager) IncrementPageCount() {
	bm.pageCount.Add(1)
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.shutdown()
}

func (bm *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(bm.headless)
	if bm.dataDir != "" {
		l = l.UserDataDir(bm.dataDir)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = l
	return nil
}

// shutdown must be called with mu held.
func (bm *BrowserManager) shutdown() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycle swaps in a fresh browser. Without a profile directory a failed
// launch keeps the old browser; with one the old browser is already gone and
// the next call relaunches. Must be called with mu held.
func (bm *BrowserManager) recycle() error {
	bm.pageCount.Store(0)
	if bm.dataDir != "" {
		// A profile directory can only be held by one Chrome at a time.
		_ = bm.shutdown()
		return bm.launch()
	}

	oldBrowser, oldLauncher := bm.browser, bm.launcher
	if err := bm.launch(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		return nil
	}
	_ = oldBrowser.Close()
	oldLauncher.Kill()
	return nil
}

// LauncherPID returns the process ID of the browser launcher.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
