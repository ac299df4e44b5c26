// internal/detect/buttons.go
package detect

import (
	"sort"
	"strings"

	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/urlutil"
)

// Candidate is a scored booking-button candidate. Lower scores are better.
type Candidate struct {
	Element  Element
	Score    int
	External bool
	Domain   string
}

// Geometry bounds for a plausible button. Anything larger is a container,
// anything smaller is an icon or tracking pixel.
const (
	minButtonWidth  = 20.0
	maxButtonWidth  = 600.0
	minButtonHeight = 15.0
	maxButtonHeight = 150.0
)

// excludeTerms disqualify an element outright. Social links, policy pages
// and amenity pages all carry booking-adjacent words without being booking
// controls.
var excludeTerms = []string{
	"facebook", "twitter", "instagram", "spa ", "conference", "wedding",
	"restaurant", "careers", "terms", "conditions", "privacy", "policy",
	"contact", "about", "faq", "gallery", "reviews", "gift", "shop",
	"store", "blog", "news", "press",
}

// hrefEngineHints score an href straight to the top even when the matcher
// has no entry, covering generic booking-path shapes.
var hrefEngineHints = []string{"book-direct", "bookdirect", "reservations", "booking"}

// ButtonFinder scores clickable elements for booking intent.
type ButtonFinder struct {
	matcher *engines.Matcher
	// MaxCandidates caps how many scored candidates are returned.
	MaxCandidates int
}

// NewButtonFinder builds a finder over the given matcher.
func NewButtonFinder(matcher *engines.Matcher, maxCandidates int) *ButtonFinder {
	if maxCandidates <= 0 {
		maxCandidates = 10
	}
	return &ButtonFinder{matcher: matcher, MaxCandidates: maxCandidates}
}

// Rank filters and scores raw elements against booking intent, returning
// the best candidates first. pageDomain decides externality. The sort is
// stable so equal scores keep DOM order.
func (f *ButtonFinder) Rank(elements []Element, pageDomain string) []Candidate {
	var candidates []Candidate
	for _, el := range elements {
		if el.Width < minButtonWidth || el.Width > maxButtonWidth ||
			el.Height < minButtonHeight || el.Height > maxButtonHeight {
			continue
		}

		text := strings.ToLower(el.Text)
		href := strings.ToLower(el.Href)

		if containsAnySub(text, excludeTerms) || containsAnySub(href, excludeTerms) {
			continue
		}

		linkDomain := ""
		external := false
		if strings.HasPrefix(href, "http") {
			linkDomain = urlutil.Domain(el.Href)
			external = linkDomain != "" && linkDomain != pageDomain
		}

		score := f.score(text, href, external)
		if score < 0 {
			continue
		}

		// Short text is a button; long text is a paragraph that happens
		// to mention booking.
		score += len(text) / 15

		candidates = append(candidates, Candidate{
			Element:  el,
			Score:    score,
			External: external,
			Domain:   linkDomain,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	if len(candidates) > f.MaxCandidates {
		candidates = candidates[:f.MaxCandidates]
	}
	return candidates
}

// score returns the base priority, or -1 when the element shows no booking
// intent at all.
func (f *ButtonFinder) score(text, href string, external bool) int {
	// A known engine in the href is conclusive regardless of text.
	if href != "" {
		if f.matcher.MatchURL(href) != "" || containsAnySub(href, hrefEngineHints) {
			return 0
		}
	}

	hasBookWord := strings.Contains(text, "book") || strings.Contains(text, "reserve") ||
		strings.Contains(text, "availability")

	if external && hasBookWord {
		return 1
	}

	switch {
	case strings.Contains(text, "book now"), strings.Contains(text, "book a stay"),
		strings.Contains(text, "reserve now"), strings.Contains(text, "book direct"):
		if external {
			return 1
		}
		return 2
	case (strings.Contains(text, "book") || strings.Contains(text, "reserve")) && len(text) < 30:
		if external {
			return 2
		}
		return 3
	case strings.Contains(text, "availability"), strings.Contains(text, "check rates"),
		strings.Contains(text, "rooms"):
		if external {
			return 2
		}
		return 4
	}
	return -1
}
