// Package rod provides browser-backed implementations of distill.Fetcher
// and distill.Searcher using Chrome automation via go-rod.
package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/akowalsk/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// Ensure Manager implements distill.Browser at compile time.
var _ distill.Browser = (*Manager)(nil)

// Manager manages a single shared browser. All page interactions are
// serialized behind an exclusive lock, so concurrent callers never
// interleave navigation on the shared instance. Chrome accumulates
// memory over time and the baseline never returns to initial levels
// even with proper page cleanup, so the browser is recycled after
// maxPages pages have been processed.
//
// Manager is safe for concurrent use.
type Manager struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int64
	maxPages  int64
	mu        sync.Mutex
	closed    atomic.Bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxPages sets the maximum number of pages before the browser is
// recycled. Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(m *Manager) {
		m.maxPages = n
	}
}

// NewManager creates a new Manager that launches a headless Chrome
// browser. Close must be called when the Manager is no longer needed.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.launchBrowser(); err != nil {
		return nil, err
	}

	return m, nil
}

// Do runs fn with exclusive access to the browser. The browser is
// recycled first if the page count has reached maxPages, and the page
// count is incremented after fn returns successfully.
func (m *Manager) Do(fn func(browser *rod.Browser) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return distill.Errorf(distill.EUNAVAILABLE, "browser is not available")
	}

	if atomic.LoadInt64(&m.pageCount) >= m.maxPages {
		m.recycleBrowser()
	}

	if err := fn(m.browser); err != nil {
		return err
	}
	atomic.AddInt64(&m.pageCount, 1)
	return nil
}

// Healthy reports whether the browser is running and responsive by
// probing it with a version request.
func (m *Manager) Healthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return false
	}
	_, err := proto.BrowserGetVersion{}.Call(m.browser)
	return err == nil
}

// Restart replaces the browser with a fresh instance. The old browser
// is kept if launching the replacement fails.
func (m *Manager) Restart() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldBrowser := m.browser
	oldLauncher := m.launcher
	m.browser = nil
	m.launcher = nil

	if err := m.launchBrowser(); err != nil {
		m.browser = oldBrowser
		m.launcher = oldLauncher
		return distill.Errorf(distill.EUNAVAILABLE, "failed to restart browser: %v", err)
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&m.pageCount, 0)
	return nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeBrowser()
}

// launchBrowser starts a new browser instance with stability flags.
func (m *Manager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("window-size", "1920,1080").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (m *Manager) closeBrowser() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (m *Manager) recycleBrowser() {
	oldBrowser := m.browser
	oldLauncher := m.launcher
	m.browser = nil
	m.launcher = nil

	if err := m.launchBrowser(); err != nil {
		m.browser = oldBrowser
		m.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&m.pageCount, 0)
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (m *Manager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}
