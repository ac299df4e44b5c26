// internal/pipeline/input_test.go
package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/stayscout/internal/config"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadHotelsCSV(t *testing.T) {
	path := writeInput(t, "hotels.csv", `name,website,phone,rating
Grand Hotel,https://www.grandhotel.com,555-1234,4.5
Seaside Inn,seasideinn.com,,4.1
`)

	records, stats, err := LoadHotels(config.InputConfig{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, "Grand Hotel", records[0].Name)
	assert.Equal(t, "555-1234", records[0].Phone)
	assert.Equal(t, "4.5", records[0].Rating)
	// Bare domains get a scheme during normalization.
	assert.Equal(t, "https://seasideinn.com", records[1].Website)
}

func TestLoadHotelsCSVHeaderAliases(t *testing.T) {
	path := writeInput(t, "hotels.csv", `hotel_name,url,reviews
Grand Hotel,grandhotel.com,120
`)

	records, _, err := LoadHotels(config.InputConfig{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Grand Hotel", records[0].Name)
	assert.Equal(t, "https://grandhotel.com", records[0].Website)
	assert.Equal(t, "120", records[0].ReviewCount)
}

func TestLoadHotelsNameFallbackFromDomain(t *testing.T) {
	path := writeInput(t, "hotels.csv", `name,website
,https://www.the-grand-hotel.com
`)

	records, _, err := LoadHotels(config.InputConfig{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "The Grand Hotel", records[0].Name)
}

func TestLoadHotelsSkipsChainsAndJunk(t *testing.T) {
	path := writeInput(t, "hotels.csv", `name,website
Marriott Downtown,https://www.marriott.com/hotels/downtown
Some Facebook Page,https://www.facebook.com/somehotel
Grand Hotel,https://www.grandhotel.com
`)

	records, stats, err := LoadHotels(
		config.InputConfig{Path: path, SkipChains: true, SkipJunk: true},
		zerolog.Nop(),
	)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Grand Hotel", records[0].Name)
	assert.Equal(t, 1, stats.SkippedChains)
	assert.Equal(t, 1, stats.SkippedJunk)
	assert.Equal(t, 1, stats.Kept)
}

func TestLoadHotelsLimit(t *testing.T) {
	path := writeInput(t, "hotels.csv", `name,website
A,https://a-hotel.com
B,https://b-hotel.com
C,https://c-hotel.com
`)

	records, stats, err := LoadHotels(config.InputConfig{Path: path, Limit: 2}, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, stats.Kept)
}

func TestLoadHotelsJSON(t *testing.T) {
	path := writeInput(t, "hotels.json", `[
		{"name": "Grand Hotel", "website": "https://www.grandhotel.com", "place_id": "abc123"},
		{"name": "Seaside Inn", "website": "seasideinn.com"}
	]`)

	records, _, err := LoadHotels(config.InputConfig{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "abc123", records[0].PlaceID)
	assert.Equal(t, "https://seasideinn.com", records[1].Website)
}

func TestLoadHotelsUnrecognizedColumns(t *testing.T) {
	path := writeInput(t, "hotels.csv", `foo,bar
1,2
`)
	_, _, err := LoadHotels(config.InputConfig{Path: path}, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadHotelsMissingFile(t *testing.T) {
	_, _, err := LoadHotels(config.InputConfig{Path: "/nonexistent/hotels.csv"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNameFromDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"the-grand-hotel.com", "The Grand Hotel"},
		{"seaside_inn.co.uk", "Seaside Inn"},
		{"grandhotel.com", "Grandhotel"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, nameFromDomain(tt.domain))
		})
	}
}
