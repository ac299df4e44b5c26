// internal/engines/matcher.go
package engines

import (
	"strings"

	"github.com/stayscout/stayscout/internal/urlutil"
	"github.com/stayscout/stayscout/pkg/types"
)

// Matcher classifies URLs and domains against a pattern table.
type Matcher struct {
	table *Table
}

// NewMatcher wraps a table. The table is not copied; callers must not
// mutate it after construction.
func NewMatcher(table *Table) *Matcher {
	return &Matcher{table: table}
}

// Table returns the underlying pattern table.
func (m *Matcher) Table() *Table {
	return m.table
}

// MatchURL returns the engine name whose first pattern appears anywhere in
// the URL, checking entries in table order so earlier entries win ties.
// Empty string means no known engine matched.
func (m *Matcher) MatchURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	lower := strings.ToLower(rawURL)
	for _, e := range m.table.entries {
		for _, p := range e.Patterns {
			if strings.Contains(lower, p) {
				return e.Name
			}
		}
	}
	return ""
}

// MatchDomain is MatchURL restricted to a bare domain string.
func (m *Matcher) MatchDomain(domain string) string {
	return m.MatchURL(domain)
}

// Classify resolves a booking URL into an engine label. A known engine
// pattern wins outright. Otherwise the label depends on where the booking
// URL points relative to the hotel's own site: a third-party host is an
// unrecognized outside platform, the hotel's own host is an in-house or
// white-labeled system, and no URL at all leaves the engine unknown.
func (m *Matcher) Classify(bookingURL, siteURL string) string {
	if bookingURL == "" {
		return types.EngineUnknown
	}
	if name := m.MatchURL(bookingURL); name != "" {
		return name
	}
	bookingHost := urlutil.Domain(bookingURL)
	siteHost := urlutil.Domain(siteURL)
	if bookingHost != "" && siteHost != "" && bookingHost != siteHost {
		return types.EngineUnknownThirdParty
	}
	return types.EngineProprietarySameSite
}
