// Package airports holds the in-memory airport dataset and the
// nearest-neighbor query engine that runs against it. The collection is
// loaded once at startup and never mutated afterwards, so any number of
// concurrent readers may query it without locking.
package airports

import (
	"errors"
	"sort"
	"strings"

	"github.com/SebInfo/AeroportsProches/pkg/geo"
)

// Kind categorizes an airport. The dataset carries free-form category
// strings (the OurAirports "type" column); the constants below cover the
// values the UI exposes, but unknown kinds load fine and are reachable
// through KindAll.
type Kind string

const (
	// KindAll is the wildcard filter value: match every kind.
	KindAll Kind = "all"

	KindLargeAirport  Kind = "large_airport"
	KindMediumAirport Kind = "medium_airport"
	KindSmallAirport  Kind = "small_airport"
	KindHeliport      Kind = "heliport"
	KindSeaplaneBase  Kind = "seaplane_base"
	KindClosed        Kind = "closed"
)

// Matches reports whether a record of kind k passes the given filter.
func (k Kind) Matches(filter Kind) bool {
	return filter == KindAll || k == filter
}

var (
	// ErrNotFound is returned when a lookup code is not in the collection.
	ErrNotFound = errors.New("airport not found")
	// ErrInvalidQuery is returned for malformed query input, before any
	// distance is computed.
	ErrInvalidQuery = errors.New("invalid query")
)

// Airport is one immutable record of the dataset.
type Airport struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Kind     Kind            `json:"kind"`
	Country  string          `json:"country"`
	Position geo.Coordinates `json:"position"`
}

// Collection is the full airport dataset, keyed by normalized code.
// It supports exact-code lookup and full scans; nothing else, because
// nothing else exists after load.
type Collection struct {
	byCode map[string]Airport
	sorted []Airport // ascending by code, fixed at load time
}

// NormalizeCode canonicalizes a lookup code the same way the loader does:
// surrounding whitespace stripped, uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func newCollection(records map[string]Airport) *Collection {
	sorted := make([]Airport, 0, len(records))
	for _, a := range records {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return &Collection{byCode: records, sorted: sorted}
}

// Get returns the airport with the given code, matching case-insensitively
// against the normalized codes stored at load time.
func (c *Collection) Get(code string) (Airport, error) {
	a, ok := c.byCode[NormalizeCode(code)]
	if !ok {
		return Airport{}, ErrNotFound
	}
	return a, nil
}

// Len returns the number of airports in the collection.
func (c *Collection) Len() int {
	return len(c.sorted)
}

// All returns every airport, ascending by code. The returned slice is a
// copy; callers cannot corrupt the collection through it.
func (c *Collection) All() []Airport {
	out := make([]Airport, len(c.sorted))
	copy(out, c.sorted)
	return out
}
