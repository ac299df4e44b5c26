// internal/detect/orchestrator.go
package detect

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/urlutil"
	"github.com/stayscout/stayscout/pkg/types"
)

// PageFactory opens an extra page for booking-page analysis. The release
// func must be called when the page is no longer needed.
type PageFactory func(ctx context.Context) (Page, func(), error)

// Orchestrator runs the evidence cascade for one hotel. Stages execute in
// a fixed order; each later stage runs only while the engine finding can
// still be upgraded. Stage failures degrade to missing evidence, never to
// a hotel-level error; only homepage navigation failure is fatal.
type Orchestrator struct {
	matcher   *engines.Matcher
	scanner   *Scanner
	activator *Activator
	log       zerolog.Logger
}

// NewOrchestrator wires the cascade components together.
func NewOrchestrator(matcher *engines.Matcher, scanner *Scanner, activator *Activator, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{matcher: matcher, scanner: scanner, activator: activator, log: log}
}

type state struct {
	page        Page
	newPage     PageFactory
	website     string
	hotelDomain string

	outcome    engines.Outcome
	bookingURL string
	methods    []string

	result *types.DetectionResult
}

func (s *state) addMethod(m string) {
	if m != "" {
		s.methods = append(s.methods, m)
	}
}

type stage struct {
	name  string
	runIf func(*state) bool
	run   func(context.Context, *state)
}

func always(*state) bool { return true }

func needsEngine(s *state) bool { return s.outcome.NeedsFallback() }

// Detect runs the full cascade against an already-opened page. The page
// must not have been navigated yet.
func (o *Orchestrator) Detect(ctx context.Context, page Page, newPage PageFactory, rec types.HotelRecord) types.DetectionResult {
	result := resultFromRecord(rec)

	s := &state{
		page:    page,
		newPage: newPage,
		website: rec.Website,
		result:  &result,
	}

	if err := page.Navigate(ctx, rec.Website); err != nil {
		result.Error = navError(err)
		o.log.Warn().Str("website", rec.Website).Str("error", result.Error).Msg("homepage load failed")
		return result
	}
	if loaded, err := page.URL(ctx); err == nil && loaded != "" {
		s.hotelDomain = urlutil.Domain(loaded)
	} else {
		s.hotelDomain = urlutil.Domain(rec.Website)
	}

	stages := []stage{
		{name: "contacts", runIf: always, run: o.stageContacts},
		{name: "homepage_html_scan", runIf: always, run: o.stageHTMLScan},
		{name: "button_find", runIf: func(s *state) bool { return needsEngine(s) || s.bookingURL == "" }, run: o.stageButtonFind},
		{name: "booking_page", runIf: func(s *state) bool { return s.bookingURL != "" && needsEngine(s) }, run: o.stageBookingPage},
		{name: "homepage_network", runIf: needsEngine, run: o.stageHomepageNetwork},
		{name: "frame_scan", runIf: needsEngine, run: o.stageFrameScan},
		{name: "html_keyword", runIf: needsEngine, run: o.stageKeyword},
	}

	for _, st := range stages {
		if ctx.Err() != nil {
			result.Error = navError(ctx.Err())
			return result
		}
		if !st.runIf(s) {
			continue
		}
		st.run(ctx, s)
	}

	o.finalize(s)
	return result
}

// stageContacts reads the rendered text and HTML once and extracts the
// enrichment fields.
func (o *Orchestrator) stageContacts(ctx context.Context, s *state) {
	text, err := s.page.Text(ctx)
	if err != nil {
		o.log.Debug().Err(err).Msg("body text read failed")
	}
	html, err := s.page.HTML(ctx)
	if err != nil {
		o.log.Debug().Err(err).Msg("document read failed")
	}
	c := ExtractContacts(text, html)
	s.result.PhoneWebsite = c.Phone
	s.result.Email = c.Email
	s.result.RoomCount = c.RoomCount
}

// stageHTMLScan is the cheapest engine check: pattern and keyword matching
// over the homepage markup. On a hit it still harvests a booking URL so
// the lead carries a verifiable link.
func (o *Orchestrator) stageHTMLScan(ctx context.Context, s *state) {
	html, err := s.page.HTML(ctx)
	if err != nil {
		return
	}
	engine, domain := o.scanner.ScanHTML(html)
	if engine == "" {
		return
	}
	o.log.Debug().Str("engine", engine).Msg("engine found in homepage markup")
	s.outcome = engines.KnownOutcome(engine, domain)
	s.addMethod("homepage_html_scan")

	anchors, err := s.page.Anchors(ctx)
	if err == nil {
		if url := o.scanner.HarvestBookingURL(anchors, s.hotelDomain); url != "" {
			s.bookingURL = url
			return
		}
	}
	if srcs, err := s.page.IframeSrcs(ctx); err == nil {
		if src := o.scanner.BookingIframe(srcs); src != "" {
			s.bookingURL = src
		}
	}
}

// stageButtonFind goes after the booking button, then reads engine
// evidence out of whatever traffic the attempt produced.
func (o *Orchestrator) stageButtonFind(ctx context.Context, s *state) {
	activation := o.activator.Activate(ctx, s.page)

	if activation.BookingURL != "" {
		s.bookingURL = activation.BookingURL
	}
	s.addMethod(activation.Method)

	if len(activation.Network) > 0 && needsEngine(s) {
		if hit := o.matcher.SniffNetwork(activation.Network, s.hotelDomain); hit != nil {
			o.log.Debug().Str("engine", hit.Engine).Msg("engine found in click traffic")
			s.outcome = engines.OutcomeFromLabel(hit.Engine, hit.Domain)
			s.addMethod("widget_network")
			if hit.URL != "" && s.bookingURL == "" {
				s.bookingURL = hit.URL
			}
		}
	}
}

// stageBookingPage opens the harvested booking URL in a fresh page and
// works through its own evidence chain: external booking links, network
// traffic, the URL itself, iframes, markup, and finally a second click for
// multi-step flows.
func (o *Orchestrator) stageBookingPage(ctx context.Context, s *state) {
	page, release, err := s.newPage(ctx)
	if err != nil {
		o.log.Debug().Err(err).Msg("booking page open failed")
		return
	}
	defer release()

	if err := page.Navigate(ctx, s.bookingURL); err != nil {
		o.log.Debug().Str("url", s.bookingURL).Err(err).Msg("booking page load failed")
		return
	}

	// A booking page that immediately points somewhere external usually
	// points at the real system.
	if anchors, err := page.Anchors(ctx); err == nil {
		if external := o.scanner.ExternalBookingLink(anchors, s.hotelDomain); external != "" {
			s.bookingURL = external
			out := o.matcher.ClassifyOutcome(external, s.website)
			if out.Kind == engines.KindKnown || out.Kind == engines.KindThirdParty {
				s.outcome = out
				s.addMethod("external_booking_url")
				return
			}
		}
	}

	if hit := o.matcher.SniffNetwork(page.Network(), s.hotelDomain); hit != nil {
		s.outcome = engines.OutcomeFromLabel(hit.Engine, hit.Domain)
		s.addMethod(hit.Method)
		if hit.URL != "" && hit.URL != s.bookingURL {
			s.bookingURL = hit.URL
		}
		if !needsEngine(s) {
			return
		}
	}

	if needsEngine(s) {
		s.outcome = o.matcher.ClassifyOutcome(s.bookingURL, s.website)
		if s.outcome.Kind == engines.KindKnown {
			s.addMethod("booking_url_match")
		}
	}

	if needsEngine(s) {
		if srcs, err := page.IframeSrcs(ctx); err == nil {
			if src := o.scanner.BookingIframe(srcs); src != "" {
				engine := o.matcher.MatchURL(src)
				s.outcome = engines.KnownOutcome(engine, urlutil.Domain(src))
				s.addMethod("iframe_on_booking_page")
				s.bookingURL = src
			}
		}
	}

	if needsEngine(s) {
		if html, err := page.HTML(ctx); err == nil {
			if engine, domain := o.scanner.ScanHTML(html); engine != "" {
				s.outcome = engines.KnownOutcome(engine, domain)
				s.addMethod("html_source_scan")
			}
		}
	}

	if needsEngine(s) {
		o.multiStep(ctx, s, page)
	}
}

// multiStep handles flows where the first booking page is a listing or
// date picker and the real engine sits one more click away.
func (o *Orchestrator) multiStep(ctx context.Context, s *state, page Page) {
	second := o.activator.SecondStage(ctx, s.page)
	if second == nil {
		second = o.activator.SecondStage(ctx, page)
	}
	if second == nil {
		return
	}

	if len(second.Network) > 0 {
		if hit := o.matcher.SniffNetwork(second.Network, s.hotelDomain); hit != nil {
			s.outcome = engines.OutcomeFromLabel(hit.Engine, hit.Domain)
			s.addMethod("second_click_network")
			if hit.URL != "" {
				s.bookingURL = hit.URL
			}
			if !needsEngine(s) {
				return
			}
		}
	}

	if second.BookingURL == "" || second.BookingURL == s.bookingURL {
		return
	}
	s.bookingURL = second.BookingURL
	s.addMethod(second.Method)

	if err := page.Navigate(ctx, second.BookingURL); err != nil {
		return
	}
	if html, err := page.HTML(ctx); err == nil {
		if engine, domain := o.scanner.ScanHTML(html); engine != "" {
			s.outcome = engines.KnownOutcome(engine, domain)
			s.addMethod("second_page_scan")
			return
		}
	}
	if hit := o.matcher.SniffNetwork(page.Network(), s.hotelDomain); hit != nil {
		s.outcome = engines.OutcomeFromLabel(hit.Engine, hit.Domain)
		s.addMethod("second_page_network")
	}
}

// stageHomepageNetwork falls back to the homepage's own request log.
func (o *Orchestrator) stageHomepageNetwork(_ context.Context, s *state) {
	hit := o.matcher.SniffNetwork(s.page.Network(), s.hotelDomain)
	if hit == nil {
		return
	}
	s.outcome = engines.OutcomeFromLabel(hit.Engine, hit.Domain)
	s.addMethod("homepage_network")
	if hit.URL != "" && s.bookingURL == "" {
		s.bookingURL = hit.URL
	}
}

// stageFrameScan checks every frame URL in the homepage frame tree.
func (o *Orchestrator) stageFrameScan(ctx context.Context, s *state) {
	frames, err := s.page.FrameURLs(ctx)
	if err != nil {
		return
	}
	engine, domain, frameURL := o.scanner.ScanFrames(frames)
	if engine == "" {
		return
	}
	s.outcome = engines.KnownOutcome(engine, domain)
	s.addMethod("frame_scan")
	if frameURL != "" && s.bookingURL == "" {
		s.bookingURL = frameURL
	}
}

// stageKeyword is the last resort: vendor keywords in raw homepage markup.
func (o *Orchestrator) stageKeyword(ctx context.Context, s *state) {
	html, err := s.page.HTML(ctx)
	if err != nil {
		return
	}
	if engine := o.scanner.ScanKeywords(html); engine != "" {
		s.outcome = engines.Outcome{Kind: engines.KindKnown, Engine: engine}
		s.addMethod("html_keyword")
	}
}

// finalize converts the accumulated state into the stored result and
// applies the junk and no-evidence rules.
func (o *Orchestrator) finalize(s *state) {
	r := s.result
	r.BookingURL = s.bookingURL
	r.BookingEngine = s.outcome.Label()
	if r.BookingEngine == "" {
		r.BookingEngine = types.EngineUnknown
	}
	// Only a named engine owns a domain; the sentinel labels describe where
	// the booking URL points, and the URL already carries that.
	if s.outcome.Kind == engines.KindKnown {
		r.BookingEngineDomain = s.outcome.Domain
	}
	r.DetectionMethod = strings.Join(s.methods, "+")

	// A booking URL on a junk host would mask the real engine on a later
	// pass, so the whole finding is invalidated for retry.
	if r.BookingURL != "" && engines.IsJunkBookingDomain(urlutil.Domain(r.BookingURL)) {
		o.log.Info().Str("url", r.BookingURL).Msg("junk booking url, marking for retry")
		r.BookingURL = ""
		r.BookingEngine = ""
		r.BookingEngineDomain = ""
		r.Error = types.ErrJunkBookingURL
		return
	}

	if r.BookingURL == "" && (r.BookingEngine == "" || r.BookingEngine == types.EngineUnknown) {
		r.Error = types.ErrNoBookingFound
	}
}

func resultFromRecord(rec types.HotelRecord) types.DetectionResult {
	return types.DetectionResult{
		Name:        rec.Name,
		Website:     rec.Website,
		PhoneGoogle: rec.Phone,
		Address:     rec.Address,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Rating:      rec.Rating,
		ReviewCount: rec.ReviewCount,
		PlaceID:     rec.PlaceID,
	}
}

// navError classifies a fatal navigation failure into the stored error
// string. Newlines are stripped and the message truncated so downstream
// CSV rows stay intact.
func navError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ErrTimeout
	}
	msg := strings.NewReplacer("\n", " ", "\r", "").Replace(err.Error())
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return types.ExceptionPrefix + msg
}
