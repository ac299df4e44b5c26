// internal/detect/page.go
package detect

import (
	"context"

	"github.com/stayscout/stayscout/internal/engines"
)

// Element is one clickable candidate as harvested from the DOM. Values are
// raw; all scoring happens in this package.
type Element struct {
	Index   int     `json:"index"`
	Tag     string  `json:"tag"`
	Text    string  `json:"text"`
	Href    string  `json:"href"`
	ID      string  `json:"id"`
	Classes string  `json:"classes"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Anchor is a link with the text signals used for booking-intent checks.
type Anchor struct {
	Href      string `json:"href"`
	Text      string `json:"text"`
	AriaLabel string `json:"ariaLabel"`
	Title     string `json:"title"`
}

// ClickKind tags what a click did.
type ClickKind int

const (
	// ClickNone means nothing observable happened.
	ClickNone ClickKind = iota
	// ClickPopup means the click opened a new tab.
	ClickPopup
	// ClickNavigation means the current page moved to a new URL.
	ClickNavigation
	// ClickWidget means the page stayed put but the click fired network
	// traffic, the signature of an embedded booking widget.
	ClickWidget
)

// ClickResult is the single tagged outcome of racing popup, navigation and
// widget traffic after a click.
type ClickResult struct {
	Kind ClickKind
	// URL is the popup or navigation destination.
	URL string
	// Network is the traffic captured between click and verdict.
	Network []engines.RequestRecord
}

// Page is the browser surface the cascade reads evidence from. A chromedp
// tab implements it in production; tests supply fakes.
type Page interface {
	// URL returns the page's current location.
	URL(ctx context.Context) (string, error)
	// Navigate loads a URL with the two-tier timeout policy and waits the
	// settle delay.
	Navigate(ctx context.Context, url string) error
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)
	// Text returns the rendered body text.
	Text(ctx context.Context) (string, error)
	// Clickables harvests candidate clickable elements with geometry.
	Clickables(ctx context.Context) ([]Element, error)
	// Anchors harvests all links with their text signals.
	Anchors(ctx context.Context) ([]Anchor, error)
	// IframeSrcs returns the src of every iframe in the document.
	IframeSrcs(ctx context.Context) ([]string, error)
	// FrameURLs returns the URL of every frame in the frame tree.
	FrameURLs(ctx context.Context) ([]string, error)
	// Network returns all requests captured since the page opened, in
	// capture order.
	Network() []engines.RequestRecord
	// Click activates the element harvested at the given index and
	// reports what happened.
	Click(ctx context.Context, index int) (ClickResult, error)
	// DismissOverlays tries to close cookie-consent and similar popups.
	DismissOverlays(ctx context.Context)
}
