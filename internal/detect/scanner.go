// internal/detect/scanner.go
package detect

import (
	"regexp"
	"strings"

	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/urlutil"
)

var (
	attrURLRe = regexp.MustCompile(`(?i)(?:src|href|data-src|action)=["']?(https?://[^"'\s>]+)`)
	// jsURLRe catches URLs buried in inline scripts and JSON blobs.
	jsURLRe = regexp.MustCompile(`https?://[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}[^"'\s]*`)
)

// bookingPathHints mark an href as booking-related by its path or query.
var bookingPathHints = []string{
	"/book", "/checkout", "/reserve", "/availability", "booking=", "checkin=",
	"/enquiry", "/inquiry", "/rooms", "/stay", "/accommodation",
}

// listingPathHints are the weaker property-listing shapes used only when
// nothing stronger exists.
var listingPathHints = []string{"/property/", "/listing/", "/unit/", "/rental/"}

// harvestExclude drops policy and about pages that share path words with
// booking URLs.
var harvestExclude = []string{
	"terms", "conditions", "policy", "privacy", "faq", "about",
	"appraisal", "cancellation", "facebook", "twitter", "instagram",
}

// externalLinkJunk disqualifies a link from the external booking link scan
// by href or text.
var externalLinkJunk = []string{
	"terms", "conditions", "policy", "privacy", "faq",
	"facebook", "instagram", "twitter", "sevenrooms", "opentable", "resy.com",
}

// externalIntentWords qualify a link's combined text as booking intent.
var externalIntentWords = []string{"book", "reserve", "availability", "check avail", "enquire", "inquire"}

// Scanner finds engine evidence in static page content: raw HTML, anchor
// sets, iframe srcs and frame trees.
type Scanner struct {
	matcher  *engines.Matcher
	keywords *engines.KeywordScanner
}

// NewScanner builds a scanner over the given matcher and keyword list.
func NewScanner(matcher *engines.Matcher, keywords *engines.KeywordScanner) *Scanner {
	return &Scanner{matcher: matcher, keywords: keywords}
}

// ScanHTML looks for a known engine anywhere in the HTML. First every URL
// in the markup is extracted and its domain checked against the pattern
// table; failing that, the vendor keyword list runs over the raw text.
func (s *Scanner) ScanHTML(html string) (engine, domain string) {
	seen := make(map[string]struct{})
	check := func(rawURL string) (string, string) {
		d := strings.ToLower(urlutil.Domain(rawURL))
		if d == "" {
			return "", ""
		}
		if _, ok := seen[d]; ok {
			return "", ""
		}
		seen[d] = struct{}{}
		if name := s.matcher.MatchDomain(d); name != "" {
			return name, d
		}
		return "", ""
	}

	for _, m := range attrURLRe.FindAllStringSubmatch(html, -1) {
		if name, d := check(m[1]); name != "" {
			return name, d
		}
	}
	for _, raw := range jsURLRe.FindAllString(html, -1) {
		if name, d := check(raw); name != "" {
			return name, d
		}
	}

	if hit := s.keywords.Scan(html); hit != nil {
		return hit.Engine, hit.Domain
	}
	return "", ""
}

// ScanKeywords runs only the vendor keyword fallback over the HTML.
func (s *Scanner) ScanKeywords(html string) string {
	if hit := s.keywords.Scan(html); hit != nil {
		return hit.Engine
	}
	return ""
}

// HarvestBookingURL picks the most promising booking URL from the page's
// anchors: known engine hosts beat external hosts beat same-domain paths.
// Listing-style links are the fallback when no booking path exists at all.
func (s *Scanner) HarvestBookingURL(anchors []Anchor, hotelDomain string) string {
	type scored struct {
		href     string
		priority int
	}

	var best scored
	consider := func(href string) {
		lower := strings.ToLower(href)
		linkDomain := urlutil.Domain(href)
		priority := 1
		if s.matcher.MatchURL(lower) != "" {
			priority = 3
		} else if linkDomain != "" && linkDomain != hotelDomain {
			priority = 2
		}
		if priority > best.priority {
			best = scored{href: href, priority: priority}
		}
	}

	for _, a := range anchors {
		lower := strings.ToLower(a.Href)
		if containsAnySub(lower, harvestExclude) {
			continue
		}
		if !containsAnySub(lower, bookingPathHints) && s.matcher.MatchURL(lower) == "" {
			continue
		}
		consider(a.Href)
	}

	if best.href == "" {
		for _, a := range anchors {
			if containsAnySub(strings.ToLower(a.Href), listingPathHints) {
				consider(a.Href)
			}
		}
	}
	return best.href
}

// BookingIframe returns the first iframe src that belongs to a known
// engine.
func (s *Scanner) BookingIframe(srcs []string) string {
	for _, src := range srcs {
		if s.matcher.MatchURL(src) != "" {
			return src
		}
	}
	return ""
}

// ExternalBookingLink finds the first link pointing off the hotel's domain
// whose text declares booking intent, covering sites whose "Check
// Availability" lives on a sister property site.
func (s *Scanner) ExternalBookingLink(anchors []Anchor, hotelDomain string) string {
	for _, a := range anchors {
		combined := strings.ToLower(a.Text + " " + a.AriaLabel + " " + a.Title)
		if !containsAnySub(combined, externalIntentWords) {
			continue
		}
		if containsAnySub(strings.ToLower(a.Href), externalLinkJunk) || containsAnySub(combined, externalLinkJunk) {
			continue
		}
		linkDomain := urlutil.Domain(a.Href)
		if linkDomain != "" && linkDomain != hotelDomain {
			return a.Href
		}
	}
	return ""
}

// ScanFrames checks every frame URL against the pattern table. Frame HTML
// is never fetched here; the URL alone is the cheap, reliable signal.
func (s *Scanner) ScanFrames(frameURLs []string) (engine, domain, frameURL string) {
	for _, u := range frameURLs {
		if u == "" || strings.HasPrefix(u, "about:") {
			continue
		}
		lower := strings.ToLower(u)
		for _, e := range s.matcher.Table().Entries() {
			for _, p := range e.Patterns {
				if strings.Contains(lower, p) {
					return e.Name, p, u
				}
			}
		}
	}
	return "", "", ""
}
