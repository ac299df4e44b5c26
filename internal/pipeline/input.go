// internal/pipeline/input.go
package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stayscout/stayscout/internal/config"
	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/urlutil"
	"github.com/stayscout/stayscout/pkg/types"
)

// LoadStats counts what happened to the input file's records before any
// detection ran.
type LoadStats struct {
	Total         int
	SkippedChains int
	SkippedJunk   int
	Kept          int
}

// LoadHotels reads hotel records from a CSV or JSON file, applies the
// chain/junk pre-filter, backfills missing names from the website domain,
// and caps the result at cfg.Limit.
func LoadHotels(cfg config.InputConfig, log zerolog.Logger) ([]types.HotelRecord, LoadStats, error) {
	var (
		records []types.HotelRecord
		err     error
	)
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".json":
		records, err = readJSONRecords(cfg.Path)
	default:
		records, err = readCSVRecords(cfg.Path)
	}
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{Total: len(records)}
	kept := make([]types.HotelRecord, 0, len(records))
	for _, rec := range records {
		rec.Website = urlutil.Normalize(rec.Website)
		domain := urlutil.Domain(rec.Website)

		if cfg.SkipChains && engines.IsChainDomain(domain) {
			stats.SkippedChains++
			continue
		}
		if cfg.SkipJunk && engines.IsJunkWebsite(domain) {
			stats.SkippedJunk++
			continue
		}

		if strings.TrimSpace(rec.Name) == "" {
			rec.Name = nameFromDomain(domain)
		}

		kept = append(kept, rec)
		if cfg.Limit > 0 && len(kept) >= cfg.Limit {
			break
		}
	}
	stats.Kept = len(kept)

	log.Info().
		Int("total", stats.Total).
		Int("kept", stats.Kept).
		Int("skipped_chains", stats.SkippedChains).
		Int("skipped_junk", stats.SkippedJunk).
		Msg("input loaded")

	return kept, stats, nil
}

func readJSONRecords(path string) ([]types.HotelRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var records []types.HotelRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}
	return records, nil
}

// csvAliases maps accepted header spellings onto record fields. Discovery
// exports have used several over time.
var csvAliases = map[string]string{
	"name":            "name",
	"hotel_name":      "name",
	"hotel":           "name",
	"website":         "website",
	"url":             "website",
	"site":            "website",
	"phone":           "phone",
	"phone_google":    "phone",
	"phone_number":    "phone",
	"address":         "address",
	"latitude":        "latitude",
	"lat":             "latitude",
	"longitude":       "longitude",
	"lng":             "longitude",
	"lon":             "longitude",
	"rating":          "rating",
	"review_count":    "review_count",
	"reviews":         "review_count",
	"place_id":        "place_id",
	"google_place_id": "place_id",
}

func readCSVRecords(path string) ([]types.HotelRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV input: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[int]string, len(rows[0]))
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := csvAliases[key]; ok {
			columns[i] = field
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("CSV input has no recognized columns")
	}

	records := make([]types.HotelRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec types.HotelRecord
		for i, value := range row {
			field, ok := columns[i]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch field {
			case "name":
				rec.Name = value
			case "website":
				rec.Website = value
			case "phone":
				rec.Phone = value
			case "address":
				rec.Address = value
			case "latitude":
				rec.Latitude = value
			case "longitude":
				rec.Longitude = value
			case "rating":
				rec.Rating = value
			case "review_count":
				rec.ReviewCount = value
			case "place_id":
				rec.PlaceID = value
			}
		}
		if rec.Name == "" && rec.Website == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

var titleCaser = cases.Title(language.English)

// nameFromDomain derives a display name from the first label of the domain:
// "the-grand-hotel.com" becomes "The Grand Hotel".
func nameFromDomain(domain string) string {
	if domain == "" {
		return ""
	}
	label := domain
	if i := strings.Index(label, "."); i > 0 {
		label = label[:i]
	}
	label = strings.NewReplacer("-", " ", "_", " ").Replace(label)
	return titleCaser.String(label)
}
