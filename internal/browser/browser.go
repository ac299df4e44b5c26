// internal/browser/browser.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Timeouts carries the per-tab timing policy.
type Timeouts struct {
	// Nav bounds the first navigation attempt, which waits for the page
	// load event.
	Nav time.Duration
	// NavRetry bounds the second attempt, which only waits for the
	// navigation to be committed.
	NavRetry time.Duration
	// Settle is the pause after navigation before the DOM is read, so
	// injected widgets have a chance to appear.
	Settle time.Duration
	// PopupWait is how long a click may take to open a new tab.
	PopupWait time.Duration
	// WidgetWait is unused by navigation; clicks use it as the window for
	// widget network traffic.
	WidgetWait time.Duration
}

// DefaultTimeouts mirrors the settled production values.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Nav:        30 * time.Second,
		NavRetry:   15 * time.Second,
		Settle:     1500 * time.Millisecond,
		PopupWait:  2 * time.Second,
		WidgetWait: 3 * time.Second,
	}
}

// Options configures the shared Chrome process.
type Options struct {
	Headless  bool
	UserAgent string
}

// Browser owns one Chrome process. Tabs are created per hotel in isolated
// browsing contexts so cookies and storage never leak between sites.
type Browser struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeouts      Timeouts
	log           zerolog.Logger
}

// New launches Chrome. Certificate errors are ignored to match the probe;
// hotel sites with broken TLS are still worth scanning.
func New(ctx context.Context, opts Options, timeouts Timeouts, log zerolog.Logger) (*Browser, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(ua),
		chromedp.WindowSize(1366, 900),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run a no-op so the process starts now and startup errors surface
	// here instead of on the first hotel.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Debug().Bool("headless", opts.Headless).Msg("browser started")

	return &Browser{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeouts:      timeouts,
		log:           log,
	}, nil
}

// NewTab opens a fresh tab with its own network log.
func (b *Browser) NewTab() (*Tab, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)

	netlog := newNetworkLog()
	if err := chromedp.Run(tabCtx, enableNetwork(netlog)); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	return &Tab{
		ctx:      tabCtx,
		cancel:   tabCancel,
		netlog:   netlog,
		timeouts: b.timeouts,
		log:      b.log,
	}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.browserCancel()
	b.allocCancel()
}
