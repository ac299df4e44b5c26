// internal/engines/sniff.go
package engines

import (
	"strings"

	"github.com/stayscout/stayscout/pkg/types"
)

// RequestRecord is one captured network request, reduced to the request
// host and the first full URL seen for that host.
type RequestRecord struct {
	Host string
	URL  string
}

// SniffHit is the outcome of classifying a page's network traffic.
type SniffHit struct {
	Engine string
	Domain string
	Method string
	URL    string
}

// SniffNetwork inspects captured requests for booking engine traffic.
// Known engine hosts win outright. Failing that, any third-party request
// whose URL carries a booking keyword is reported as an unrecognized
// booking API, after the noise hosts are filtered out. Records are checked
// in capture order so the earliest evidence wins.
func (m *Matcher) SniffNetwork(requests []RequestRecord, hotelDomain string) *SniffHit {
	for _, r := range requests {
		if name := m.MatchDomain(r.Host); name != "" {
			return &SniffHit{Engine: name, Domain: r.Host, Method: "network_sniff", URL: r.URL}
		}
	}
	for _, r := range requests {
		if r.Host == hotelDomain || IsNetworkNoise(r.Host) {
			continue
		}
		lower := strings.ToLower(r.URL)
		for _, kw := range BookingAPIKeywords {
			if strings.Contains(lower, kw) {
				return &SniffHit{
					Engine: types.EngineUnknownBookingAPI,
					Domain: r.Host,
					Method: "network_sniff_keyword",
					URL:    r.URL,
				}
			}
		}
	}
	return nil
}
