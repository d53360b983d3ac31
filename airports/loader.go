package airports

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SebInfo/AeroportsProches/pkg/geo"
)

// RawAirport is one unvalidated row as delivered by a Source. Coordinates
// stay textual until Load parses them, so every source reports malformed
// positions the same way.
type RawAirport struct {
	Code    string
	Name    string
	Kind    string
	Country string
	Lat     string
	Lon     string
}

// Source delivers the raw rows of an airport dataset. Implementations exist
// for local CSV files, CSV over HTTP, a Postgres table, and a compiled-in
// sample.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Rows reads the full dataset. A row-level problem is not an error:
	// sources emit the row as-is (or zero-valued) and let Load skip it.
	Rows(ctx context.Context) ([]RawAirport, error)
}

// LoadStats reports what Load did with the source's rows. Skipped rows are
// never fatal, but the count must surface so a half-broken dataset is
// noticed.
type LoadStats struct {
	Rows    int `json:"rows"`
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Load reads every row from src, normalizes and validates it, and returns
// the immutable collection of valid rows. Rows with an empty code, an
// unparseable or out-of-range position, or a code already seen are skipped
// and counted in LoadStats. A source-level failure (unreadable resource,
// missing columns) is fatal and returns an error.
func Load(ctx context.Context, src Source) (*Collection, LoadStats, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("loading airports from %s: %w", src.Name(), err)
	}

	stats := LoadStats{Rows: len(rows)}
	records := make(map[string]Airport, len(rows))
	for _, raw := range rows {
		a, ok := normalizeRow(raw)
		if !ok {
			stats.Skipped++
			continue
		}
		if _, dup := records[a.Code]; dup {
			// First occurrence wins; the duplicate is a data defect.
			stats.Skipped++
			continue
		}
		records[a.Code] = a
		stats.Loaded++
	}

	return newCollection(records), stats, nil
}

func normalizeRow(raw RawAirport) (Airport, bool) {
	code := NormalizeCode(raw.Code)
	if code == "" {
		return Airport{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(raw.Lat), 64)
	if err != nil {
		return Airport{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(raw.Lon), 64)
	if err != nil {
		return Airport{}, false
	}
	pos := geo.Coordinates{Lat: lat, Lon: lon}
	if !pos.IsValid() {
		return Airport{}, false
	}

	return Airport{
		Code:     code,
		Name:     strings.TrimSpace(raw.Name),
		Kind:     Kind(strings.ToLower(strings.TrimSpace(raw.Kind))),
		Country:  strings.ToUpper(strings.TrimSpace(raw.Country)),
		Position: pos,
	}, true
}
