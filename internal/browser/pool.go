// internal/browser/pool.go
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Pool reuses tabs across hotels. Opening a browsing context costs real
// time; parking a blanked tab and handing it to the next hotel does not.
// Size 0 disables reuse entirely.
type Pool struct {
	browser *Browser
	tabs    chan *Tab
}

// NewPool wraps a browser with a tab pool of the given size.
func NewPool(b *Browser, size int) *Pool {
	return &Pool{
		browser: b,
		tabs:    make(chan *Tab, size),
	}
}

// Get returns a parked tab or opens a new one.
func (p *Pool) Get() (*Tab, error) {
	select {
	case tab := <-p.tabs:
		return tab, nil
	default:
		return p.browser.NewTab()
	}
}

// Put parks a tab for reuse after scrubbing its state, or closes it when
// the pool is full or the scrub fails.
func (p *Pool) Put(tab *Tab) {
	if cap(p.tabs) == 0 {
		tab.Close()
		return
	}
	if err := tab.reset(); err != nil {
		tab.Close()
		return
	}
	select {
	case p.tabs <- tab:
	default:
		tab.Close()
	}
}

// Close drains and closes every parked tab.
func (p *Pool) Close() {
	for {
		select {
		case tab := <-p.tabs:
			tab.Close()
		default:
			return
		}
	}
}

// reset blanks the tab and clears its request log so the next hotel starts
// from nothing.
func (t *Tab) reset() error {
	cctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(cctx, chromedp.Navigate("about:blank")); err != nil {
		return err
	}
	t.netlog.reset()
	return nil
}
