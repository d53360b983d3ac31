package airports

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/SebInfo/AeroportsProches/pkg/geo"
)

// DefaultNearbyLimit is how many nearby airports a search returns when the
// caller does not ask for a specific count.
const DefaultNearbyLimit = 4

// Proximity pairs an airport with its distance to some reference position.
// The distance is planar (see geo.PlanarDistance) and expressed in degrees.
type Proximity struct {
	Airport  Airport `json:"airport"`
	Distance float64 `json:"distance"`
}

// FormatDistance renders the distance with a fixed number of decimals for
// display, e.g. in a marker popup.
func (p Proximity) FormatDistance(decimals int) string {
	return strconv.FormatFloat(p.Distance, 'f', decimals, 64)
}

// FindNearest returns the up-to-limit airports closest to ref, ascending by
// distance. Candidates are filtered by kind (KindAll matches everything) and
// the airport whose code equals excludeCode, normally the reference airport
// itself, is never a candidate. Equal distances are broken by ascending code
// so identical queries always return identical orderings.
//
// The function is pure: it never touches the collection and every call
// returns a fresh slice, so concurrent queries cannot observe each other.
func FindNearest(col *Collection, ref geo.Coordinates, filter Kind, excludeCode string, limit int) ([]Proximity, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, limit)
	}
	if !ref.IsValid() {
		return nil, fmt.Errorf("%w: reference position %+v out of range", ErrInvalidQuery, ref)
	}

	exclude := NormalizeCode(excludeCode)
	candidates := make([]Proximity, 0, len(col.sorted))
	for _, a := range col.sorted {
		if a.Code == exclude {
			continue
		}
		if !a.Kind.Matches(filter) {
			continue
		}
		candidates = append(candidates, Proximity{
			Airport:  a,
			Distance: geo.PlanarDistance(ref, a.Position),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Airport.Code < candidates[j].Airport.Code
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// SearchResult is what the presentation layer gets back for one lookup: the
// reference airport and, when nearby search was requested, its closest
// matches. An empty Nearby list on a found airport is a valid result, not an
// error.
type SearchResult struct {
	Airport Airport     `json:"airport"`
	Nearby  []Proximity `json:"nearby"`
}

// Search resolves a lookup code and optionally runs the nearest-airport
// query around it. A non-positive limit falls back to DefaultNearbyLimit.
// Returns ErrNotFound when the code is not in the collection.
func Search(col *Collection, code string, filter Kind, includeNearby bool, limit int) (*SearchResult, error) {
	a, err := col.Get(code)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Airport: a, Nearby: []Proximity{}}
	if !includeNearby {
		return result, nil
	}

	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	nearby, err := FindNearest(col, a.Position, filter, a.Code, limit)
	if err != nil {
		return nil, err
	}
	if nearby != nil {
		result.Nearby = nearby
	}
	return result, nil
}
