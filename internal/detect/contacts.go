// internal/detect/contacts.go
package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	phoneUSRe   = regexp.MustCompile(`\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	phoneIntlRe = regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)
	emailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneJunkRe = regexp.MustCompile(`[^\d+]`)

	roomCountRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:guest\s*)?rooms?(?:\s+available)?`),
		regexp.MustCompile(`(\d+)\s*(?:boutique\s*)?(?:guest\s*)?rooms?`),
		regexp.MustCompile(`(\d+)[\s-]*room\s+(?:hotel|motel|inn|property)`),
		regexp.MustCompile(`(?:hotel|property|we)\s+(?:has|have|offers?|features?)\s+(\d+)\s*rooms?`),
		regexp.MustCompile(`(?:featuring|with)\s+(\d+)\s*(?:guest\s*)?rooms?`),
		regexp.MustCompile(`(\d+)\s*(?:suites?|units?|apartments?|accommodations?)`),
	}

	skipEmailSubstrings = []string{
		"example.com", "domain.com", "email.com", "sentry.io",
		"wixpress.com", "schema.org", ".png", ".jpg", ".gif",
	}
)

// Contacts is the enrichment data pulled from a hotel page.
type Contacts struct {
	Phone     string
	Email     string
	RoomCount string
}

// ExtractContacts pulls phone, email and room count from the rendered page
// text, falling back to tel: and mailto: links in the HTML. Everything is
// best effort; missing fields stay empty.
func ExtractContacts(text, html string) Contacts {
	var c Contacts

	if phones := ExtractPhones(text); len(phones) > 0 {
		c.Phone = phones[0]
	}
	if emails := ExtractEmails(text); len(emails) > 0 {
		c.Email = emails[0]
	}
	c.RoomCount = ExtractRoomCount(text)

	if (c.Phone == "" || c.Email == "") && html != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err == nil {
			if c.Phone == "" {
				c.Phone = phoneFromTelLinks(doc)
			}
			if c.Email == "" {
				c.Email = emailFromMailtoLinks(doc)
			}
		}
	}
	return c
}

// ExtractPhones returns up to three distinct phone numbers, digits and plus
// signs only, at least ten digits long.
func ExtractPhones(text string) []string {
	var raw []string
	raw = append(raw, phoneUSRe.FindAllString(text, -1)...)
	raw = append(raw, phoneIntlRe.FindAllString(text, -1)...)

	seen := make(map[string]struct{})
	var cleaned []string
	for _, p := range raw {
		p = phoneJunkRe.ReplaceAllString(p, "")
		if len(p) < 10 {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
		if len(cleaned) == 3 {
			break
		}
	}
	return cleaned
}

// ExtractEmails returns up to three distinct addresses, with placeholder
// and asset-name lookalikes filtered out.
func ExtractEmails(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, email := range emailRe.FindAllString(text, -1) {
		lower := strings.ToLower(email)
		if containsAnySub(lower, skipEmailSubstrings) {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, email)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// ExtractRoomCount finds the first plausible room count mentioned in the
// text. Counts outside 1..2000 are noise, not hotels.
func ExtractRoomCount(text string) string {
	lower := strings.ToLower(text)
	for _, re := range roomCountRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if len(m) < 2 {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n >= 1 && n <= 2000 {
				return m[1]
			}
		}
	}
	return ""
}

func phoneFromTelLinks(doc *goquery.Document) string {
	var phone string
	doc.Find(`a[href^="tel:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		p := phoneJunkRe.ReplaceAllString(strings.TrimPrefix(href, "tel:"), "")
		if len(p) >= 10 {
			phone = p
			return false
		}
		return true
	})
	return phone
}

func emailFromMailtoLinks(doc *goquery.Document) string {
	var email string
	doc.Find(`a[href^="mailto:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		if strings.Contains(addr, "@") {
			email = addr
			return false
		}
		return true
	})
	return email
}

func containsAnySub(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
