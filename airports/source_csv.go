package airports

import (
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
)

// Column names of the OurAirports CSV export. The loader projects these onto
// the record fields; any other columns in the file are ignored.
const (
	colCode    = "ident"
	colName    = "name"
	colKind    = "type"
	colLat     = "latitude_deg"
	colLon     = "longitude_deg"
	colCountry = "iso_country"
)

var requiredColumns = []string{colCode, colName, colKind, colLat, colLon, colCountry}

// FileSource reads an airports CSV from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Rows(ctx context.Context) ([]RawAirport, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

// HTTPSource fetches the same CSV over HTTP, retrying transient failures.
type HTTPSource struct {
	URL string

	// Client is optional; a default retrying client is used when nil.
	Client *retryablehttp.Client
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Rows(ctx context.Context) ([]RawAirport, error) {
	client := s.Client
	if client == nil {
		client = retryablehttp.NewClient()
		client.RetryMax = 3
		client.Logger = nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, s.URL)
	}
	return parseCSV(resp.Body)
}

//go:embed data/airports_sample.csv
var embeddedData embed.FS

// EmbeddedSource serves the compiled-in sample dataset, so the binary runs
// with zero external setup. It is the default source in development.
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded sample" }

func (EmbeddedSource) Rows(ctx context.Context) ([]RawAirport, error) {
	f, err := embeddedData.Open("data/airports_sample.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

// parseCSV projects a header-addressed CSV stream onto raw airport rows.
// A missing required column is a structural failure of the whole source;
// a short data row only invalidates itself (emitted zero-valued so Load
// counts the skip).
func parseCSV(r io.Reader) ([]RawAirport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	maxIdx := 0
	for _, col := range requiredColumns {
		i, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", col)
		}
		if i > maxIdx {
			maxIdx = i
		}
	}

	var rows []RawAirport
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if len(record) <= maxIdx {
			rows = append(rows, RawAirport{})
			continue
		}
		rows = append(rows, RawAirport{
			Code:    record[index[colCode]],
			Name:    record[index[colName]],
			Kind:    record[index[colKind]],
			Country: record[index[colCountry]],
			Lat:     record[index[colLat]],
			Lon:     record[index[colLon]],
		})
	}
	return rows, nil
}
