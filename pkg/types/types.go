// pkg/types/types.go
package types

import "strings"

// Sentinel booking_engine values: partial knowledge short of a confirmed
// platform identity. A result carrying only one of these is not terminally
// done and may be re-offered to a later detection pass.
const (
	EngineUnknown             = "unknown"
	EngineUnknownThirdParty   = "unknown_third_party"
	EngineProprietarySameSite = "proprietary_or_same_domain"
	EngineUnknownBookingAPI   = "unknown_booking_api"
)

// Recognized error values. Errors produced with a dynamic suffix
// (precheck_failed: *, exception: *) are matched by prefix.
const (
	ErrTimeout           = "timeout"
	ErrNoBookingFound    = "no_booking_found"
	ErrJunkBookingURL    = "junk_booking_url_retry"
	ErrJunkWebsite       = "junk_domain"
	PrecheckFailedPrefix = "precheck_failed: "
	ExceptionPrefix      = "exception: "
)

// HotelRecord is a lead produced by the discovery collaborator. Read-only
// input to detection.
type HotelRecord struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Website     string `json:"website" yaml:"website"`
	Phone       string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address     string `json:"address,omitempty" yaml:"address,omitempty"`
	Latitude    string `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude   string `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Rating      string `json:"rating,omitempty" yaml:"rating,omitempty"`
	ReviewCount string `json:"review_count,omitempty" yaml:"review_count,omitempty"`
	PlaceID     string `json:"place_id,omitempty" yaml:"place_id,omitempty"`
}

// DetectionResult is the per-hotel output of the detection cascade. Results
// are idempotently upsertable keyed by (Name, Website); reprocessing a hotel
// overwrites its prior row rather than appending.
type DetectionResult struct {
	Name                string `json:"name"`
	Website             string `json:"website"`
	BookingURL          string `json:"booking_url"`
	BookingEngine       string `json:"booking_engine"`
	BookingEngineDomain string `json:"booking_engine_domain"`
	DetectionMethod     string `json:"detection_method"`
	Error               string `json:"error"`
	PhoneGoogle         string `json:"phone_google"`
	PhoneWebsite        string `json:"phone_website"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	Latitude            string `json:"latitude"`
	Longitude           string `json:"longitude"`
	Rating              string `json:"rating"`
	ReviewCount         string `json:"review_count"`
	RoomCount           string `json:"room_count"`
	PlaceID             string `json:"place_id"`
}

// IsSentinelEngine reports whether engine is empty or one of the sentinel
// placeholder values rather than a named platform.
func IsSentinelEngine(engine string) bool {
	switch engine {
	case "", EngineUnknown, EngineUnknownThirdParty, EngineProprietarySameSite, EngineUnknownBookingAPI:
		return true
	}
	return false
}

// HasKnownEngine reports whether the result names a real platform.
func (r *DetectionResult) HasKnownEngine() bool {
	return !IsSentinelEngine(r.BookingEngine)
}

// Terminal reports whether the result is done for good: no error, and either
// a named engine or a validated booking URL. Anything else is retry-eligible
// and should be re-offered by the surrounding scheduler.
func (r *DetectionResult) Terminal() bool {
	if r.Error != "" {
		return false
	}
	return r.HasKnownEngine() || r.BookingURL != ""
}

// RetryEligible is the inverse of Terminal, spelled out for call sites that
// read better in the positive.
func (r *DetectionResult) RetryEligible() bool {
	return !r.Terminal()
}

// AppendMethod records a contributing detection stage on the audit trail.
// Stages are joined with "+" in the order evidence was produced.
func (r *DetectionResult) AppendMethod(method string) {
	if method == "" {
		return
	}
	if r.DetectionMethod == "" {
		r.DetectionMethod = method
		return
	}
	r.DetectionMethod += "+" + method
}

// Key is the idempotent upsert key for storage.
func (r *DetectionResult) Key() (name, website string) {
	return strings.TrimSpace(r.Name), r.Website
}

// Fields returns the result as an ordered header/row pair for tabular
// writers (CSV, Excel). Column order is stable across runs.
func (r *DetectionResult) Fields() ([]string, []string) {
	headers := []string{
		"name", "website", "booking_url", "booking_engine",
		"booking_engine_domain", "detection_method", "error",
		"phone_google", "phone_website", "email", "address",
		"latitude", "longitude", "rating", "review_count",
		"room_count", "place_id",
	}
	values := []string{
		r.Name, r.Website, r.BookingURL, r.BookingEngine,
		r.BookingEngineDomain, r.DetectionMethod, r.Error,
		r.PhoneGoogle, r.PhoneWebsite, r.Email, r.Address,
		r.Latitude, r.Longitude, r.Rating, r.ReviewCount,
		r.RoomCount, r.PlaceID,
	}
	return headers, values
}
