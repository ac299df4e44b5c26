// internal/detect/activator_test.go
package detect

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/stayscout/internal/engines"
)

func testActivator() *Activator {
	return NewActivator(testFinder(), zerolog.Nop())
}

func TestActivateHrefShortCircuitsClick(t *testing.T) {
	page := &fakePage{
		url: "https://www.grandhotel.com",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "/reservations", Width: 100, Height: 40},
		},
		// No click results registered: a click would return ClickNone and
		// fail the test expectation below.
	}

	act := testActivator().Activate(context.Background(), page)
	assert.Equal(t, "href_extraction", act.Method)
	assert.Equal(t, "https://www.grandhotel.com/reservations", act.BookingURL)
}

func TestActivateInertHrefFallsThroughToClick(t *testing.T) {
	page := &fakePage{
		url: "https://www.grandhotel.com",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "#book", Width: 100, Height: 40},
		},
		clicks: map[int]ClickResult{
			0: {Kind: ClickNavigation, URL: "https://www.grandhotel.com/book"},
		},
	}

	act := testActivator().Activate(context.Background(), page)
	assert.Equal(t, "navigation", act.Method)
	assert.Equal(t, "https://www.grandhotel.com/book", act.BookingURL)
}

func TestActivateNoCandidates(t *testing.T) {
	page := &fakePage{url: "https://www.grandhotel.com"}
	act := testActivator().Activate(context.Background(), page)
	assert.Equal(t, "no_booking_button_found", act.Method)
	assert.Empty(t, act.BookingURL)
}

func TestActivateClickWithoutEffect(t *testing.T) {
	page := &fakePage{
		url: "https://www.grandhotel.com",
		clickables: []Element{
			{Index: 0, Tag: "button", Text: "Book Now", Width: 100, Height: 40},
		},
	}
	act := testActivator().Activate(context.Background(), page)
	assert.Equal(t, "click_failed", act.Method)
}

func TestSecondStagePrefersAvailability(t *testing.T) {
	page := &fakePage{
		url: "https://www.grandhotel.com/book",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Book Now", Href: "/book", Width: 100, Height: 40},
			{Index: 1, Tag: "a", Text: "Check Availability", Href: "https://us01.iqwebbook.com/grand", Width: 100, Height: 40},
		},
	}

	act := testActivator().SecondStage(context.Background(), page)
	require.NotNil(t, act)
	assert.Equal(t, "two_stage_href", act.Method)
	assert.Equal(t, "https://us01.iqwebbook.com/grand", act.BookingURL)
}

func TestSecondStageClickPopup(t *testing.T) {
	page := &fakePage{
		url: "https://www.grandhotel.com/book",
		clickables: []Element{
			{Index: 0, Tag: "button", Text: "Search", Width: 100, Height: 40},
		},
		clicks: map[int]ClickResult{
			0: {
				Kind: ClickPopup,
				URL:  "https://secure.thinkreservations.com/grand",
				Network: []engines.RequestRecord{
					{Host: "secure.thinkreservations.com", URL: "https://secure.thinkreservations.com/grand"},
				},
			},
		},
	}

	act := testActivator().SecondStage(context.Background(), page)
	require.NotNil(t, act)
	assert.Equal(t, "two_stage_popup", act.Method)
	assert.Equal(t, "https://secure.thinkreservations.com/grand", act.BookingURL)
}

func TestSecondStageNothingToClick(t *testing.T) {
	page := &fakePage{
		url: "https://www.grandhotel.com/book",
		clickables: []Element{
			{Index: 0, Tag: "a", Text: "Gallery", Href: "/gallery", Width: 100, Height: 40},
		},
	}
	assert.Nil(t, testActivator().SecondStage(context.Background(), page))
}
