// internal/browser/tab.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/detect"
	"github.com/stayscout/stayscout/internal/engines"
)

// Tab is one Chrome tab with request capture. It implements detect.Page.
type Tab struct {
	ctx      context.Context
	cancel   context.CancelFunc
	netlog   *networkLog
	timeouts Timeouts
	log      zerolog.Logger
}

// Close tears the tab down.
func (t *Tab) Close() {
	t.cancel()
}

// URL returns the tab's current location.
func (t *Tab) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var loc string
	if err := t.run(5*time.Second, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return loc, nil
}

// Navigate loads the URL. The first attempt waits for the load event; when
// that times out the page often exists anyway, so a second attempt settles
// for the navigation merely being committed. Either way the settle delay
// runs before returning so injected widgets can appear.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := t.run(t.timeouts.Nav, chromedp.Navigate(url))
	if err != nil {
		t.log.Debug().Str("url", url).Err(err).Msg("full load timed out, retrying for commit")
		retryErr := t.run(t.timeouts.NavRetry, chromedp.ActionFunc(func(cctx context.Context) error {
			_, _, _, _, nerr := page.Navigate(url).Do(cctx)
			return nerr
		}))
		if retryErr != nil {
			return fmt.Errorf("navigation failed for %s: %w", url, err)
		}
	}

	return t.sleep(ctx, t.timeouts.Settle)
}

// HTML serializes the live document without waiting for page stability.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var html string
	err := t.run(10*time.Second, chromedp.Evaluate(
		`document.documentElement ? document.documentElement.outerHTML : ''`, &html))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return html, nil
}

// Text returns the rendered body text.
func (t *Tab) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var text string
	err := t.run(10*time.Second, chromedp.Evaluate(
		`document.body ? document.body.innerText : ''`, &text))
	if err != nil {
		return "", fmt.Errorf("failed to read body text: %w", err)
	}
	return text, nil
}

// Clickables harvests candidate clickable elements. Each element is tagged
// with a data attribute so Click can address it later without re-querying.
func (t *Tab) Clickables(ctx context.Context) ([]detect.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var elements []detect.Element
	if err := t.run(10*time.Second, chromedp.Evaluate(clickablesJS, &elements)); err != nil {
		return nil, fmt.Errorf("failed to harvest clickables: %w", err)
	}
	return elements, nil
}

// Anchors harvests every link with its text signals.
func (t *Tab) Anchors(ctx context.Context) ([]detect.Anchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var anchors []detect.Anchor
	if err := t.run(10*time.Second, chromedp.Evaluate(anchorsJS, &anchors)); err != nil {
		return nil, fmt.Errorf("failed to harvest anchors: %w", err)
	}
	return anchors, nil
}

// IframeSrcs returns the src of every iframe in the document.
func (t *Tab) IframeSrcs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var srcs []string
	err := t.run(5*time.Second, chromedp.Evaluate(
		`Array.from(document.querySelectorAll('iframe[src]')).map(f => f.src).filter(s => s.startsWith('http'))`,
		&srcs))
	if err != nil {
		return nil, fmt.Errorf("failed to read iframes: %w", err)
	}
	return srcs, nil
}

// FrameURLs walks the frame tree and returns every frame URL, including
// nested frames that never surface as iframe elements of the top document.
func (t *Tab) FrameURLs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var urls []string
	err := t.run(5*time.Second, chromedp.ActionFunc(func(cctx context.Context) error {
		tree, err := page.GetFrameTree().Do(cctx)
		if err != nil {
			return err
		}
		var walk func(*page.FrameTree)
		walk = func(ft *page.FrameTree) {
			if ft == nil {
				return
			}
			if ft.Frame != nil && ft.Frame.URL != "" && ft.Frame.URL != "about:blank" {
				urls = append(urls, ft.Frame.URL)
			}
			for _, child := range ft.ChildFrames {
				walk(child)
			}
		}
		walk(tree)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read frame tree: %w", err)
	}
	return urls, nil
}

// Network returns every captured request so far.
func (t *Tab) Network() []engines.RequestRecord {
	return t.netlog.snapshot()
}

// Click activates a harvested element and races the three observable
// outcomes: a popup tab, a same-tab navigation, or widget network traffic.
func (t *Tab) Click(ctx context.Context, index int) (detect.ClickResult, error) {
	if err := ctx.Err(); err != nil {
		return detect.ClickResult{}, err
	}

	startURL, err := t.URL(ctx)
	if err != nil {
		return detect.ClickResult{}, err
	}
	netMark := t.netlog.mark()

	// The popup listener must exist before the click fires.
	popupCh := chromedp.WaitNewTarget(t.ctx, func(info *target.Info) bool {
		return info.Type == "page" && info.OpenerID != ""
	})

	clickExpr := fmt.Sprintf(
		`(() => { const el = document.querySelector('[data-scout-idx="%d"]'); if (!el) return false; el.click(); return true; })()`,
		index)
	var clicked bool
	if err := t.run(5*time.Second, chromedp.Evaluate(clickExpr, &clicked)); err != nil {
		return detect.ClickResult{}, fmt.Errorf("click failed: %w", err)
	}
	if !clicked {
		return detect.ClickResult{}, fmt.Errorf("click target %d no longer in DOM", index)
	}

	select {
	case id := <-popupCh:
		url := t.popupURL(id)
		t.log.Debug().Str("popup", url).Msg("click opened new tab")
		return detect.ClickResult{Kind: detect.ClickPopup, URL: url, Network: t.netlog.since(netMark)}, nil
	case <-time.After(t.timeouts.PopupWait):
	case <-ctx.Done():
		return detect.ClickResult{}, ctx.Err()
	}

	// Give AJAX widgets time to load before judging.
	if err := t.sleep(ctx, t.timeouts.Settle); err != nil {
		return detect.ClickResult{}, err
	}

	nowURL, err := t.URL(ctx)
	if err == nil && nowURL != startURL {
		return detect.ClickResult{Kind: detect.ClickNavigation, URL: nowURL, Network: t.netlog.since(netMark)}, nil
	}

	if traffic := t.netlog.since(netMark); len(traffic) > 0 {
		return detect.ClickResult{Kind: detect.ClickWidget, URL: startURL, Network: traffic}, nil
	}

	return detect.ClickResult{Kind: detect.ClickNone}, nil
}

// popupURL resolves a new target's URL and closes it. The popup itself is
// never scraped here; the orchestrator decides whether to visit its URL.
func (t *Tab) popupURL(id target.ID) string {
	popupCtx, cancel := chromedp.NewContext(t.ctx, chromedp.WithTargetID(id))
	defer cancel()

	tctx, tcancel := context.WithTimeout(popupCtx, 3*time.Second)
	defer tcancel()

	var url string
	if err := chromedp.Run(tctx, chromedp.Location(&url)); err != nil {
		t.log.Debug().Err(err).Msg("failed to resolve popup url")
		return ""
	}
	return url
}

// DismissOverlays clicks the first visible cookie-consent style button.
// Failure is irrelevant; the cascade carries on either way.
func (t *Tab) DismissOverlays(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	var dismissed bool
	if err := t.run(5*time.Second, chromedp.Evaluate(dismissOverlaysJS, &dismissed)); err != nil {
		t.log.Debug().Err(err).Msg("overlay dismissal failed")
		return
	}
	if dismissed {
		_ = t.sleep(ctx, 500*time.Millisecond)
	}
}

func (t *Tab) run(timeout time.Duration, actions ...chromedp.Action) error {
	cctx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	return chromedp.Run(cctx, actions...)
}

func (t *Tab) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ctx.Done():
		return t.ctx.Err()
	}
}
