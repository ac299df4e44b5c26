// internal/detect/activator.go
package detect

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/urlutil"
)

// Activation is the result of going after a booking button: a URL when one
// was obtained, the method tag describing how, and any network traffic the
// attempt produced.
type Activation struct {
	BookingURL string
	Method     string
	Network    []engines.RequestRecord
}

// Activator turns ranked candidates into booking URLs. An href is always
// preferred over a click: it is the booking URL, no interaction needed.
type Activator struct {
	finder *ButtonFinder
	log    zerolog.Logger
}

// NewActivator builds an activator over the given finder.
func NewActivator(finder *ButtonFinder, log zerolog.Logger) *Activator {
	return &Activator{finder: finder, log: log}
}

// Activate finds the best booking button on the page and extracts a booking
// URL from it. Every path through here returns an Activation; Method is
// "no_booking_button_found" or "click_failed" when nothing came of it.
func (a *Activator) Activate(ctx context.Context, page Page) Activation {
	page.DismissOverlays(ctx)

	pageURL, err := page.URL(ctx)
	if err != nil {
		return Activation{Method: "click_failed"}
	}
	pageDomain := urlutil.Domain(pageURL)

	elements, err := page.Clickables(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("clickable harvest failed")
		return Activation{Method: "no_booking_button_found"}
	}

	candidates := a.finder.Rank(elements, pageDomain)
	if len(candidates) == 0 {
		return Activation{Method: "no_booking_button_found"}
	}

	best := candidates[0]
	a.log.Debug().
		Str("text", best.Element.Text).
		Str("href", best.Element.Href).
		Int("score", best.Score).
		Msg("best booking candidate")

	if url := usableHref(best.Element.Href, pageURL); url != "" {
		return Activation{BookingURL: url, Method: "href_extraction"}
	}

	result, err := page.Click(ctx, best.Element.Index)
	if err != nil {
		a.log.Debug().Err(err).Msg("click failed")
		return Activation{Method: "click_failed"}
	}

	switch result.Kind {
	case ClickPopup:
		return Activation{BookingURL: result.URL, Method: "popup_page", Network: result.Network}
	case ClickNavigation:
		return Activation{BookingURL: result.URL, Method: "navigation", Network: result.Network}
	case ClickWidget:
		// The page never left; the booking system is embedded right here.
		return Activation{BookingURL: result.URL, Method: "widget_interaction", Network: result.Network}
	}
	return Activation{Method: "click_failed", Network: result.Network}
}

// secondStageTexts drive the follow-up click on a booking page, where the
// first click often lands on a date picker that still needs a search.
// Availability phrasing comes first on purpose.
var secondStageTexts = []string{
	"check availability", "availability",
	"book now", "check rates", "search", "view rates",
}

// SecondStage looks for a follow-up booking control on the current page, as
// found on date-picker intermediates and listing pages. Returns nil when no
// second button exists.
func (a *Activator) SecondStage(ctx context.Context, page Page) *Activation {
	pageURL, err := page.URL(ctx)
	if err != nil {
		return nil
	}

	elements, err := page.Clickables(ctx)
	if err != nil {
		return nil
	}

	var best *Element
	bestRank := len(secondStageTexts) + 1
	for i := range elements {
		el := elements[i]
		text := strings.ToLower(strings.TrimSpace(el.Text))
		rank := -1
		for j, want := range secondStageTexts {
			if strings.Contains(text, want) {
				rank = j
				break
			}
		}
		if rank < 0 && el.Href != "" && a.finder.matcher.MatchURL(el.Href) != "" {
			rank = 0
		}
		if rank < 0 && el.Tag == "input" && strings.Contains(strings.ToLower(el.Classes+el.ID), "submit") {
			rank = len(secondStageTexts)
		}
		if rank >= 0 && rank < bestRank {
			bestRank = rank
			best = &elements[i]
		}
	}
	if best == nil {
		return nil
	}

	if url := usableHref(best.Href, pageURL); url != "" {
		return &Activation{BookingURL: url, Method: "two_stage_href"}
	}

	result, err := page.Click(ctx, best.Index)
	if err != nil {
		return nil
	}
	switch result.Kind {
	case ClickPopup:
		return &Activation{BookingURL: result.URL, Method: "two_stage_popup", Network: result.Network}
	case ClickNavigation:
		return &Activation{BookingURL: result.URL, Method: "two_stage_navigation", Network: result.Network}
	case ClickWidget:
		return &Activation{BookingURL: result.URL, Method: "two_stage_widget", Network: result.Network}
	}
	return nil
}

// usableHref resolves an element href into an absolute booking URL, or ""
// when the href is missing or inert.
func usableHref(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	if lower := strings.ToLower(href); strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return urlutil.Resolve(base, href)
}
