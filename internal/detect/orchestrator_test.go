// internal/detect/orchestrator_test.go
package detect

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/pkg/types"
)

func newTestOrchestrator() *Orchestrator {
	matcher := engines.NewMatcher(engines.DefaultTable())
	scanner := NewScanner(matcher, engines.NewKeywordScanner())
	activator := NewActivator(NewButtonFinder(matcher, 10), zerolog.Nop())
	return NewOrchestrator(matcher, scanner, activator, zerolog.Nop())
}

func grandHotel() types.HotelRecord {
	return types.HotelRecord{
		Name:    "Grand Hotel",
		Website: "https://www.grandhotel.com",
		Phone:   "+1 555 0100",
	}
}

func TestDetectEngineInHomepageMarkup(t *testing.T) {
	home := &fakePage{
		url:  "https://www.grandhotel.com",
		html: `<html><head><script src="https://static.cloudbeds.com/widget.js"></script></head><body>Welcome</body></html>`,
		text: "Welcome to the Grand Hotel. Call (555) 123-4567. Our 45 rooms await.",
		anchors: []Anchor{
			{Href: "https://www.grandhotel.com/gallery", Text: "Gallery"},
			{Href: "https://hotels.cloudbeds.com/reservation/abc", Text: "Book Now"},
		},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, "Cloudbeds", res.BookingEngine)
	assert.Equal(t, "https://hotels.cloudbeds.com/reservation/abc", res.BookingURL)
	assert.Equal(t, "static.cloudbeds.com", res.BookingEngineDomain)
	assert.Equal(t, "homepage_html_scan", res.DetectionMethod)
	assert.Empty(t, res.Error)
	assert.Equal(t, "5551234567", res.PhoneWebsite)
	assert.Equal(t, "45", res.RoomCount)
	assert.True(t, res.Terminal())
}

func TestDetectHomepageHitSkipsFallbackStages(t *testing.T) {
	// The frame tree and request log name a different engine on purpose.
	// Once the homepage markup identifies one, the fallback stages must
	// never run, so the conflicting evidence stays invisible.
	home := &fakePage{
		url:  "https://www.grandhotel.com",
		html: `<html><head><script src="https://static.cloudbeds.com/widget.js"></script></head><body>Welcome</body></html>`,
		anchors: []Anchor{
			{Href: "https://hotels.cloudbeds.com/reservation/abc", Text: "Book Now"},
		},
		frames: []string{"https://via.eviivo.com/grandhotel"},
		network: []engines.RequestRecord{
			{Host: "direct-book.com", URL: "https://direct-book.com/properties/grand"},
		},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, "Cloudbeds", res.BookingEngine)
	assert.Equal(t, "homepage_html_scan", res.DetectionMethod)
	assert.NotContains(t, res.DetectionMethod, "frame_scan")
	assert.NotContains(t, res.DetectionMethod, "network_sniff")
	assert.NotContains(t, res.DetectionMethod, "html_keyword")
	assert.Empty(t, res.Error)
}

func TestDetectHrefExtractionThenNetworkSniff(t *testing.T) {
	home := &fakePage{
		url:  "https://www.grandhotel.com",
		html: `<html><body>Plain site</body></html>`,
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "https://be.synxis.com/?hotel=123", Width: 120, Height: 40},
		},
	}
	bookingPage := &fakePage{
		url: "about:blank",
		byURL: map[string]*fakePage{
			"https://be.synxis.com/?hotel=123": {
				html: `<html><body>reservation engine</body></html>`,
				network: []engines.RequestRecord{
					{Host: "be.synxis.com", URL: "https://be.synxis.com/api/availability"},
				},
			},
		},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(bookingPage), grandHotel())

	assert.Equal(t, "SynXis / TravelClick", res.BookingEngine)
	assert.Equal(t, "network_sniff", res.DetectionMethod[len(res.DetectionMethod)-len("network_sniff"):])
	assert.Contains(t, res.DetectionMethod, "href_extraction")
	assert.Empty(t, res.Error)
	assert.True(t, res.Terminal())
}

func TestDetectWidgetNetwork(t *testing.T) {
	home := &fakePage{
		url:  "https://www.grandhotel.com",
		html: `<html><body>Widget site</body></html>`,
		clickables: []Element{
			{Index: 0, Tag: "button", Text: "Book Now", Width: 120, Height: 40},
		},
		clicks: map[int]ClickResult{
			0: {
				Kind: ClickWidget,
				URL:  "https://www.grandhotel.com",
				Network: []engines.RequestRecord{
					{Host: "portal.freetobook.com", URL: "https://portal.freetobook.com/widget?hotel=9"},
				},
			},
		},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, "FreeToBook", res.BookingEngine)
	assert.Equal(t, "widget_interaction+widget_network", res.DetectionMethod)
	assert.Empty(t, res.Error)
}

func TestDetectNoEvidence(t *testing.T) {
	home := &fakePage{
		url:  "https://www.grandhotel.com",
		html: `<html><body>Just a brochure site</body></html>`,
		text: "No online booking here.",
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, types.EngineUnknown, res.BookingEngine)
	assert.Empty(t, res.BookingURL)
	assert.Equal(t, types.ErrNoBookingFound, res.Error)
	assert.Contains(t, res.DetectionMethod, "no_booking_button_found")
	assert.True(t, res.RetryEligible())
}

func TestDetectPartialSuccessIsNotAnError(t *testing.T) {
	// A booking URL on an unrecognized third-party host: no named engine,
	// but still a finding, not an error.
	home := &fakePage{
		url: "https://www.grandhotel.com",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "https://reserve.obscure-vendor.io/grand", Width: 120, Height: 40},
		},
	}
	bookingPage := &fakePage{url: "about:blank"}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(bookingPage), grandHotel())

	assert.Equal(t, types.EngineUnknownThirdParty, res.BookingEngine)
	assert.Equal(t, "https://reserve.obscure-vendor.io/grand", res.BookingURL)
	assert.Empty(t, res.BookingEngineDomain, "only a named engine carries a domain")
	assert.Empty(t, res.Error)
	assert.True(t, res.Terminal())
}

func TestDetectSameSiteBookingCarriesNoDomain(t *testing.T) {
	home := &fakePage{
		url: "https://www.grandhotel.com",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "https://www.grandhotel.com/booking", Width: 120, Height: 40},
		},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, types.EngineProprietarySameSite, res.BookingEngine)
	assert.Equal(t, "https://www.grandhotel.com/booking", res.BookingURL)
	assert.Empty(t, res.BookingEngineDomain)
	assert.Empty(t, res.Error)
}

func TestDetectJunkBookingURLInvalidated(t *testing.T) {
	home := &fakePage{
		url: "https://www.grandhotel.com",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "https://www.yelp.com/book-grand-hotel", Width: 120, Height: 40},
		},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, types.ErrJunkBookingURL, res.Error)
	assert.Empty(t, res.BookingURL)
	assert.Empty(t, res.BookingEngine)
	assert.Empty(t, res.BookingEngineDomain)
	assert.True(t, res.RetryEligible())
}

func TestDetectHomepageTimeout(t *testing.T) {
	home := &fakePage{
		url:    "https://www.grandhotel.com",
		navErr: context.DeadlineExceeded,
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, types.ErrTimeout, res.Error)
	assert.True(t, res.RetryEligible())
}

func TestDetectFrameScanFallback(t *testing.T) {
	home := &fakePage{
		url:    "https://www.grandhotel.com",
		html:   `<html><body>nothing obvious</body></html>`,
		frames: []string{"https://www.grandhotel.com/", "https://via.eviivo.com/grandhotel"},
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	assert.Equal(t, "eviivo", res.BookingEngine)
	assert.Contains(t, res.DetectionMethod, "frame_scan")
	assert.Equal(t, "https://via.eviivo.com/grandhotel", res.BookingURL)
}

func TestDetectKeywordFallback(t *testing.T) {
	home := &fakePage{
		url:  "https://www.grandhotel.com",
		html: `<html><body><script>var cfg = { vendor: "cubilis.eu/widget" };</script></body></html>`,
	}

	res := newTestOrchestrator().Detect(context.Background(), home, singlePageFactory(&fakePage{}), grandHotel())

	require.NotEmpty(t, res.BookingEngine)
	assert.Equal(t, "Cubilis", res.BookingEngine)
}

func TestDetectIsIdempotent(t *testing.T) {
	build := func() *fakePage {
		return &fakePage{
			url:  "https://www.grandhotel.com",
			html: `<html><script src="https://static.cloudbeds.com/w.js"></script></html>`,
		}
	}
	o := newTestOrchestrator()
	first := o.Detect(context.Background(), build(), singlePageFactory(&fakePage{}), grandHotel())
	second := o.Detect(context.Background(), build(), singlePageFactory(&fakePage{}), grandHotel())
	assert.Equal(t, first, second)
}
