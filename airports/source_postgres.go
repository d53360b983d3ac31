package airports

import (
	"context"
	"strconv"

	"github.com/SebInfo/AeroportsProches/db"
)

// PostgresSource reads the dataset from the airports table. The table is
// read exactly once at startup; the collection never goes back to it.
type PostgresSource struct {
	DB *db.PostgresDB
}

func (s PostgresSource) Name() string { return "postgres:airports" }

func (s PostgresSource) Rows(ctx context.Context) ([]RawAirport, error) {
	dbRows, err := s.DB.QueryAirports(ctx)
	if err != nil {
		return nil, err
	}
	return rawAirportRows(dbRows), nil
}

func rawAirportRows(dbRows []db.AirportRow) []RawAirport {
	rows := make([]RawAirport, 0, len(dbRows))
	for _, r := range dbRows {
		raw := RawAirport{
			Code:    r.Code,
			Name:    r.Name,
			Kind:    r.Kind,
			Country: r.Country,
		}
		// NULL coordinates stay empty and the loader skips the row.
		if r.Latitude.Valid {
			raw.Lat = strconv.FormatFloat(r.Latitude.Float64, 'f', -1, 64)
		}
		if r.Longitude.Valid {
			raw.Lon = strconv.FormatFloat(r.Longitude.Float64, 'f', -1, 64)
		}
		rows = append(rows, raw)
	}
	return rows
}
