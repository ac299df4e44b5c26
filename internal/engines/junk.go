// internal/engines/junk.go
package engines

import "strings"

// BookingButtonKeywords are the phrases that mark a clickable element as a
// booking control. Matching is case-insensitive substring.
var BookingButtonKeywords = []string{
	"book now", "book", "reserve", "reserve now",
	"reservation", "reservations", "check availability",
	"check rates", "availability", "book online", "book a room",
}

// chainDomains are the big hotel chains. Their properties run corporate
// reservation systems, so they are skipped before detection ever starts.
var chainDomains = []string{
	"marriott.com", "hilton.com", "ihg.com", "hyatt.com", "wyndham.com",
	"choicehotels.com", "bestwestern.com", "radissonhotels.com", "accor.com",
}

// junkWebsiteDomains mark input websites that are not a real hotel site:
// social profiles, OTA listings, and government park pages.
var junkWebsiteDomains = []string{
	"facebook.com", "instagram.com", "twitter.com", "youtube.com", "tiktok.com",
	"linkedin.com", "yelp.com", "tripadvisor.com", "google.com",
	"booking.com", "expedia.com", "hotels.com", "airbnb.com", "vrbo.com",
	"dnr.", "parks.", "recreation.", ".gov", ".edu", ".mil",
}

// junkBookingDomains invalidate a harvested booking URL. A "booking" link
// that lands on a social profile or an OTA is worse than no result, because
// it would mask the real engine on a later pass.
var junkBookingDomains = []string{
	"facebook.com", "instagram.com", "twitter.com", "youtube.com",
	"linkedin.com", "yelp.com", "tripadvisor.com", "google.com",
	"booking.com", "expedia.com", "hotels.com", "airbnb.com", "vrbo.com",
}

// networkSkipHosts filters the request log before the booking-API keyword
// sweep. Analytics, ad tech, CDNs, e-commerce, and restaurant reservation
// platforms all produce URLs full of words like "checkout" and "reserv".
var networkSkipHosts = []string{
	"google", "facebook", "analytics", "cdn", "cloudflare", "jquery", "wp-",
	"2o7.net", "omtrdc.net", "demdex.net", "adobedtm", "omniture",
	"doubleclick", "adsrvr", "adnxs", "criteo", "taboola", "outbrain",
	"hotjar", "mouseflow", "fullstory", "heap", "mixpanel", "segment",
	"newrelic", "datadome", "sentry", "bugsnag",
	"shopify", "shop.app", "myshopify",
	"nowbookit", "dimmi.com.au", "sevenrooms", "opentable", "resy.com",
}

// BookingAPIKeywords flag a network request as booking-related when the
// engine itself is unrecognized.
var BookingAPIKeywords = []string{"book", "reserv", "avail", "pricing", "checkout", "payment"}

// IsChainDomain reports whether the website belongs to a big hotel chain.
func IsChainDomain(website string) bool {
	return containsAny(strings.ToLower(website), chainDomains)
}

// IsJunkWebsite reports whether the input website is a social profile, OTA
// listing, or other non-hotel page.
func IsJunkWebsite(website string) bool {
	return containsAny(strings.ToLower(website), junkWebsiteDomains)
}

// IsJunkBookingDomain reports whether a harvested booking URL's domain is
// one of the junk destinations that should invalidate the result.
func IsJunkBookingDomain(domain string) bool {
	return containsAny(strings.ToLower(domain), junkBookingDomains)
}

// IsNetworkNoise reports whether a request host should be excluded from the
// booking-API keyword sweep.
func IsNetworkNoise(host string) bool {
	return containsAny(strings.ToLower(host), networkSkipHosts)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
