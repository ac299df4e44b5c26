// internal/detect/fake_page_test.go
package detect

import (
	"context"

	"github.com/stayscout/stayscout/internal/engines"
)

// fakePage is an in-memory Page for cascade tests. Navigation swaps the
// page state through the byURL map when present.
type fakePage struct {
	url        string
	html       string
	text       string
	clickables []Element
	anchors    []Anchor
	iframes    []string
	frames     []string
	network    []engines.RequestRecord
	clicks     map[int]ClickResult
	navErr     error
	navigated  []string
	byURL      map[string]*fakePage
}

func (f *fakePage) URL(context.Context) (string, error) { return f.url, nil }

func (f *fakePage) Navigate(_ context.Context, url string) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.navigated = append(f.navigated, url)
	if next, ok := f.byURL[url]; ok {
		f.html = next.html
		f.text = next.text
		f.clickables = next.clickables
		f.anchors = next.anchors
		f.iframes = next.iframes
		f.frames = next.frames
		f.network = append(f.network, next.network...)
		f.clicks = next.clicks
	}
	f.url = url
	return nil
}

func (f *fakePage) HTML(context.Context) (string, error) { return f.html, nil }
func (f *fakePage) Text(context.Context) (string, error) { return f.text, nil }

func (f *fakePage) Clickables(context.Context) ([]Element, error) { return f.clickables, nil }
func (f *fakePage) Anchors(context.Context) ([]Anchor, error)     { return f.anchors, nil }
func (f *fakePage) IframeSrcs(context.Context) ([]string, error)  { return f.iframes, nil }
func (f *fakePage) FrameURLs(context.Context) ([]string, error)   { return f.frames, nil }

func (f *fakePage) Network() []engines.RequestRecord { return f.network }

func (f *fakePage) Click(_ context.Context, index int) (ClickResult, error) {
	if r, ok := f.clicks[index]; ok {
		return r, nil
	}
	return ClickResult{Kind: ClickNone}, nil
}

func (f *fakePage) DismissOverlays(context.Context) {}

func singlePageFactory(p *fakePage) PageFactory {
	return func(context.Context) (Page, func(), error) {
		return p, func() {}, nil
	}
}
