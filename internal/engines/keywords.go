// internal/engines/keywords.go
package engines

import (
	"regexp"
	"strings"
)

// KeywordHit is a keyword-fallback match: the engine identified and the
// vendor domain to report alongside it.
type KeywordHit struct {
	Engine string
	Domain string
}

type keywordPattern struct {
	keyword string
	engine  string
	domain  string
	re      *regexp.Regexp
}

// KeywordDelimiters is the character class required immediately after a
// keyword for it to count as a hit. Bare substring matching is too loose
// ("ezee" matches "freeze"); requiring a domain or path delimiter right
// after the keyword keeps false positives out. Tunable if a vendor shows
// up with a different URL shape.
const KeywordDelimiters = `[./\-]`

// KeywordScanner finds booking engine vendor keywords buried in raw HTML.
// It is the last evidence source in the cascade: scripts and widgets often
// reference the vendor domain even when no clickable booking control was
// found.
type KeywordScanner struct {
	patterns []keywordPattern
}

// NewKeywordScanner compiles the built-in keyword list. Order matters; the
// first keyword found wins.
func NewKeywordScanner() *KeywordScanner {
	s := &KeywordScanner{patterns: make([]keywordPattern, 0, len(keywordTriples))}
	for _, t := range keywordTriples {
		s.patterns = append(s.patterns, keywordPattern{
			keyword: t.keyword,
			engine:  t.engine,
			domain:  t.domain,
			re:      regexp.MustCompile(regexp.QuoteMeta(t.keyword) + KeywordDelimiters),
		})
	}
	return s
}

// Scan returns the first keyword hit in the HTML, or nil if none.
func (s *KeywordScanner) Scan(html string) *KeywordHit {
	lower := strings.ToLower(html)
	for _, p := range s.patterns {
		if p.re.MatchString(lower) {
			return &KeywordHit{Engine: p.engine, Domain: p.domain}
		}
	}
	return nil
}

var keywordTriples = []struct {
	keyword string
	engine  string
	domain  string
}{
	{"resortpro", "Streamline", "streamlinevrs.com"},
	{"homhero", "HomHero", "homhero.com.au"},
	{"cloudbeds", "Cloudbeds", "cloudbeds.com"},
	{"freetobook", "FreeToBook", "freetobook.com"},
	{"siteminder", "SiteMinder", "siteminder.com"},
	{"thebookingbutton", "SiteMinder", "thebookingbutton.com"},
	{"littlehotelier", "Little Hotelier", "littlehotelier.com"},
	{"webrezpro", "WebRezPro", "webrezpro.com"},
	{"resnexus", "ResNexus", "resnexus.com"},
	{"beds24", "Beds24", "beds24.com"},
	{"checkfront", "Checkfront", "checkfront.com"},
	{"eviivo", "eviivo", "eviivo.com"},
	{"lodgify", "Lodgify", "lodgify.com"},
	{"newbook", "Newbook", "newbook.cloud"},
	{"rmscloud", "RMS Cloud", "rmscloud.com"},
	{"ipms247", "JEHS / iPMS", "ipms247.com"},
	{"synxis", "SynXis / TravelClick", "synxis.com"},
	{"mews.com", "Mews", "mews.com"},
	{"triptease", "Triptease", "triptease.io"},
	{"bookingmood", "BookingMood", "bookingmood.com"},
	{"seekda", "Seekda / KUBE", "seekda.com"},
	{"kube", "Seekda / KUBE", "seekda.com"},
	{"ownerreservations", "OwnerReservations", "ownerreservations.com"},
	{"guestroomgenie", "GuestRoomGenie", "guestroomgenie.com"},
	{"beyondpricing", "Beyond Pricing", "beyondpricing.com"},
	{"hotelkeyapp", "HotelKey", "hotelkeyapp.com"},
	{"prenohq", "Preno", "prenohq.com"},
	{"profitroom", "Profitroom", "profitroom.com"},
	{"avvio", "Avvio", "avvio.com"},
	{"netaffinity", "Net Affinity", "netaffinity.com"},
	{"simplotel", "Simplotel", "simplotel.com"},
	{"cubilis", "Cubilis", "cubilis.com"},
	{"cendyn", "Cendyn", "cendyn.com"},
	{"booklogic", "BookLogic", "booklogic.net"},
	{"ratetiger", "RateTiger", "ratetiger.com"},
	{"d-edge", "D-Edge", "d-edge.com"},
	{"availpro", "D-Edge", "availpro.com"},
	{"bookassist", "BookAssist", "bookassist.com"},
	{"guestcentric", "GuestCentric", "guestcentric.com"},
	{"verticalbooking", "Vertical Booking", "verticalbooking.com"},
	{"busyrooms", "Busy Rooms", "busyrooms.com"},
	{"myhotel.io", "myHotel.io", "myhotel.io"},
	{"hotelspider", "HotelSpider", "hotelspider.com"},
	{"staah", "Staah", "staah.com"},
	{"axisrooms", "AxisRooms", "axisrooms.com"},
	{"e4jconnect", "E4jConnect / VikBooking", "e4jconnect.com"},
	{"vikbooking", "E4jConnect / VikBooking", "vikbooking.com"},
	{"apaleo", "Apaleo", "apaleo.com"},
	{"clock-software", "Clock PMS", "clock-software.com"},
	{"clock-pms", "Clock PMS", "clock-pms.com"},
	{"protel", "Protel", "protel.net"},
	{"frontdeskanywhere", "Frontdesk Anywhere", "frontdeskanywhere.com"},
	{"hoteltime", "HotelTime", "hoteltime.com"},
	{"stayntouch", "StayNTouch", "stayntouch.com"},
	{"roomcloud", "RoomCloud", "roomcloud.net"},
	{"escapia", "Escapia", "escapia.com"},
	{"liverez", "LiveRez", "liverez.com"},
	{"barefoot", "Barefoot", "barefoot.com"},
	{"trackhs", "Track", "trackhs.com"},
	{"igms", "iGMS", "igms.com"},
	{"smoobu", "Smoobu", "smoobu.com"},
	{"tokeet", "Tokeet", "tokeet.com"},
	{"365villas", "365Villas", "365villas.com"},
	{"rentalsunited", "Rentals United", "rentalsunited.com"},
	{"bookingsync", "BookingSync", "bookingsync.com"},
	{"janiis", "JANIIS", "janiis.com"},
	{"quibblerm", "Quibble", "quibblerm.com"},
	{"hirum", "HiRUM", "hirum.com.au"},
	{"ibooked", "iBooked", "ibooked.net.au"},
	{"seekom", "Seekom", "seekom.com"},
	{"respax", "ResPax", "respax.com"},
	{"bookingcenter", "BookingCenter", "bookingcenter.com"},
	{"rezexpert", "RezExpert", "rezexpert.com"},
	{"supercontrol", "SuperControl", "supercontrol.co.uk"},
	{"anytimebooking", "Anytime Booking", "anytimebooking.eu"},
	{"elinapms", "Elina PMS", "elinapms.com"},
	{"guestline", "Guestline", "guestline.com"},
	{"visualmatrix", "Visual Matrix", "visualmatrix.com"},
	{"autoclerk", "AutoClerk", "autoclerk.com"},
	{"skytouch", "SkyTouch", "skytouch.com"},
	{"roomkeypms", "RoomKeyPMS", "roomkeypms.com"},
}
