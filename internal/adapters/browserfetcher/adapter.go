// Package browserfetcher is the browser-automation extraction strategy
// for script-rendered sources: a headless browser session with masked
// automation fingerprints, consent-overlay handling and per-source
// in-page extraction.
package browserfetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	navigationTimeout = 30 * time.Second
	settleDelay       = 3 * time.Second
	postConsentDelay  = 1 * time.Second
)

// A stable desktop identity; per-request UA rotation would be a louder
// fingerprint in a persistent browser session than keeping one.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// BrowserFetcherAdapter owns one browser process, launched lazily on
// first use and reused for every page within a run. Close releases the
// browser and must be called on every exit path.
type BrowserFetcherAdapter struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewBrowserFetcherAdapter(headless bool) *BrowserFetcherAdapter {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// the default value advertises automation to every script
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1366, 768),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserFetcherAdapter{allocCtx: allocCtx, allocCancel: allocCancel}
}

func (a *BrowserFetcherAdapter) Name() string { return "browser-automation" }

// session returns the shared browser tab, starting the browser on first
// use so a broken Chrome install fails on the first page, not at
// construction time.
func (a *BrowserFetcherAdapter) session() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browserCtx == nil {
		ctx, cancel := chromedp.NewContext(a.allocCtx)
		if err := chromedp.Run(ctx); err != nil {
			cancel()
			return nil, fmt.Errorf("browser fetcher: failed to start browser: %w", err)
		}
		a.browserCtx, a.browserCancel = ctx, cancel
	}
	return a.browserCtx, nil
}

// Close releases the browser session and the launched process.
func (a *BrowserFetcherAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browserCancel != nil {
		a.browserCancel()
		a.browserCancel = nil
		a.browserCtx = nil
	}
	a.allocCancel()
}
