// internal/urlutil/urlutil_test.go
package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare domain gets https",
			raw:  "grandhotel.com",
			want: "https://grandhotel.com",
		},
		{
			name: "http kept",
			raw:  "http://grandhotel.com",
			want: "http://grandhotel.com",
		},
		{
			name: "https kept",
			raw:  "https://www.grandhotel.com/rooms",
			want: "https://www.grandhotel.com/rooms",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  seasideinn.co.uk ",
			want: "https://seasideinn.co.uk",
		},
		{
			name: "empty stays empty",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only stays empty",
			raw:  "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

// Normalizing twice must never change what domain a URL resolves to.
func TestNormalizeDomainFixedPoint(t *testing.T) {
	inputs := []string{
		"",
		"grandhotel.com",
		" grandhotel.com ",
		"www.grandhotel.com",
		"http://grandhotel.com",
		"https://WWW.GrandHotel.com:8443/booking?checkin=2024-06-01",
		"seaside_inn.co.uk",
		"not a url at all",
	}

	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize must be idempotent for %q", raw)
		assert.Equal(t, Domain(once), Domain(twice), "domain must survive renormalizing %q", raw)
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "www stripped",
			url:  "https://www.grandhotel.com/rooms",
			want: "grandhotel.com",
		},
		{
			name: "port stripped",
			url:  "https://grandhotel.com:8443/booking",
			want: "grandhotel.com",
		},
		{
			name: "host lowercased",
			url:  "https://Hotels.CloudBeds.com/reservation",
			want: "hotels.cloudbeds.com",
		},
		{
			name: "empty input",
			url:  "",
			want: "",
		},
		{
			name: "malformed input",
			url:  "http://%zz",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.url))
		})
	}
}

func TestResolve(t *testing.T) {
	base := "https://www.grandhotel.com/en/home"

	assert.Equal(t, "https://www.grandhotel.com/booking", Resolve(base, "/booking"))
	assert.Equal(t, "https://www.grandhotel.com/en/rates", Resolve(base, "rates"))
	assert.Equal(t, "https://be.synxis.com/?hotel=1", Resolve(base, "https://be.synxis.com/?hotel=1"))
}

func TestSwitchScheme(t *testing.T) {
	assert.Equal(t, "http://grandhotel.com", SwitchScheme("https://grandhotel.com"))
	assert.Equal(t, "https://grandhotel.com", SwitchScheme("http://grandhotel.com"))
}
