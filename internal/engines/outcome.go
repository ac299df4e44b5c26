// internal/engines/outcome.go
package engines

import (
	"github.com/stayscout/stayscout/internal/urlutil"
	"github.com/stayscout/stayscout/pkg/types"
)

// Kind classifies how confident the cascade is about an engine finding.
type Kind int

const (
	// KindNone means no evidence yet.
	KindNone Kind = iota
	// KindKnown is a named engine from the pattern table or keyword list.
	KindKnown
	// KindThirdParty is a booking URL on an unrecognized outside host.
	KindThirdParty
	// KindProprietary is a booking URL on the hotel's own host.
	KindProprietary
	// KindBookingAPI is an unrecognized host making booking-shaped requests.
	KindBookingAPI
)

// Outcome is the engine finding carried between cascade stages. The string
// sentinels exist only at the persistence boundary; inside the pipeline the
// Kind is authoritative.
type Outcome struct {
	Kind   Kind
	Engine string
	Domain string
}

// KnownOutcome builds a named engine finding.
func KnownOutcome(engine, domain string) Outcome {
	return Outcome{Kind: KindKnown, Engine: engine, Domain: domain}
}

// NeedsFallback reports whether later evidence stages should still run.
// A named engine or a booking-API sighting is decisive; everything weaker
// can still be upgraded.
func (o Outcome) NeedsFallback() bool {
	switch o.Kind {
	case KindKnown, KindBookingAPI:
		return false
	default:
		return true
	}
}

// Label renders the outcome as the stored engine string.
func (o Outcome) Label() string {
	switch o.Kind {
	case KindKnown:
		return o.Engine
	case KindThirdParty:
		return types.EngineUnknownThirdParty
	case KindProprietary:
		return types.EngineProprietarySameSite
	case KindBookingAPI:
		return types.EngineUnknownBookingAPI
	case KindNone:
		return ""
	}
	return ""
}

// OutcomeFromLabel parses a stored engine string back into an Outcome.
// Used by the resume filter when re-reading persisted rows.
func OutcomeFromLabel(label, domain string) Outcome {
	switch label {
	case "", types.EngineUnknown:
		return Outcome{Kind: KindNone, Domain: domain}
	case types.EngineUnknownThirdParty:
		return Outcome{Kind: KindThirdParty, Domain: domain}
	case types.EngineProprietarySameSite:
		return Outcome{Kind: KindProprietary, Domain: domain}
	case types.EngineUnknownBookingAPI:
		return Outcome{Kind: KindBookingAPI, Domain: domain}
	}
	return Outcome{Kind: KindKnown, Engine: label, Domain: domain}
}

// ClassifyOutcome is Classify expressed as a tagged Outcome.
func (m *Matcher) ClassifyOutcome(bookingURL, siteURL string) Outcome {
	label := m.Classify(bookingURL, siteURL)
	switch label {
	case types.EngineUnknown:
		return Outcome{Kind: KindNone}
	case types.EngineUnknownThirdParty:
		return Outcome{Kind: KindThirdParty, Domain: domainOf(bookingURL)}
	case types.EngineProprietarySameSite:
		return Outcome{Kind: KindProprietary, Domain: domainOf(bookingURL)}
	}
	return KnownOutcome(label, domainOf(bookingURL))
}

func domainOf(rawURL string) string {
	return urlutil.Domain(rawURL)
}
