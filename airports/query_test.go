package airports

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebInfo/AeroportsProches/pkg/geo"
)

// testCollection builds the three-airport layout used throughout:
// A(large) at (0,0), B(medium) at (0,1), C(large) at (0,2).
func testCollection(t *testing.T) *Collection {
	t.Helper()
	col, stats, err := Load(context.Background(), stubSource{rows: []RawAirport{
		{Code: "AAAA", Name: "Alpha", Kind: "large_airport", Country: "FR", Lat: "0", Lon: "0"},
		{Code: "BBBB", Name: "Bravo", Kind: "medium_airport", Country: "FR", Lat: "0", Lon: "1"},
		{Code: "CCCC", Name: "Charlie", Kind: "large_airport", Country: "FR", Lat: "0", Lon: "2"},
	}})
	require.NoError(t, err)
	require.Zero(t, stats.Skipped)
	return col
}

func codes(result []Proximity) []string {
	out := make([]string, len(result))
	for i, p := range result {
		out[i] = p.Airport.Code
	}
	return out
}

func TestFindNearest_WildcardExcludesReference(t *testing.T) {
	col := testCollection(t)

	result, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 0}, KindAll, "AAAA", 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"BBBB", "CCCC"}, codes(result))
	assert.InDelta(t, 1.0, result[0].Distance, 1e-9)
	assert.InDelta(t, 2.0, result[1].Distance, 1e-9)
}

func TestFindNearest_KindFilter(t *testing.T) {
	col := testCollection(t)

	result, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 0}, KindLargeAirport, "AAAA", 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"CCCC"}, codes(result))
	assert.InDelta(t, 2.0, result[0].Distance, 1e-9)
	for _, p := range result {
		assert.Equal(t, KindLargeAirport, p.Airport.Kind)
	}
}

func TestFindNearest_LimitCapsResults(t *testing.T) {
	col := testCollection(t)

	result, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 0}, KindAll, "", 1)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "AAAA", result[0].Airport.Code)
}

func TestFindNearest_OrderedAscendingByDistance(t *testing.T) {
	col := testCollection(t)

	result, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 1.7}, KindAll, "", 4)
	require.NoError(t, err)

	require.Len(t, result, 3)
	for i := 1; i < len(result); i++ {
		assert.LessOrEqual(t, result[i-1].Distance, result[i].Distance)
	}
}

func TestFindNearest_TieBreakByCode(t *testing.T) {
	col, _, err := Load(context.Background(), stubSource{rows: []RawAirport{
		{Code: "ZZZZ", Kind: "small_airport", Lat: "1", Lon: "0"},
		{Code: "MMMM", Kind: "small_airport", Lat: "0", Lon: "1"},
		{Code: "AAAA", Kind: "small_airport", Lat: "-1", Lon: "0"},
	}})
	require.NoError(t, err)

	// All three candidates are exactly one degree away.
	result, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 0}, KindAll, "", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAAA", "MMMM", "ZZZZ"}, codes(result))
}

func TestFindNearest_Deterministic(t *testing.T) {
	col := testCollection(t)
	ref := geo.Coordinates{Lat: 0.5, Lon: 0.5}

	first, err := FindNearest(col, ref, KindAll, "", 4)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := FindNearest(col, ref, KindAll, "", 4)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindNearest_EmptyResultIsNotAnError(t *testing.T) {
	col := testCollection(t)

	result, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 0}, Kind("heliport"), "", 4)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestFindNearest_ReferenceNeedNotBeInCollection(t *testing.T) {
	col := testCollection(t)

	result, err := FindNearest(col, geo.Coordinates{Lat: 10, Lon: 10}, KindAll, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"CCCC", "BBBB"}, codes(result))
}

func TestFindNearest_InvalidQuery(t *testing.T) {
	col := testCollection(t)

	tests := []struct {
		name  string
		ref   geo.Coordinates
		limit int
	}{
		{"zero limit", geo.Coordinates{}, 0},
		{"negative limit", geo.Coordinates{}, -3},
		{"latitude out of range", geo.Coordinates{Lat: 120, Lon: 0}, 4},
		{"longitude out of range", geo.Coordinates{Lat: 0, Lon: -200}, 4},
		{"NaN position", geo.Coordinates{Lat: math.NaN(), Lon: 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindNearest(col, tt.ref, KindAll, "", tt.limit)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestFindNearest_DoesNotMutateCollection(t *testing.T) {
	col := testCollection(t)
	before := col.All()

	_, err := FindNearest(col, geo.Coordinates{Lat: 0, Lon: 0}, KindAll, "AAAA", 4)
	require.NoError(t, err)

	assert.Equal(t, before, col.All())
}

func TestSearch_WithNearby(t *testing.T) {
	col := testCollection(t)

	result, err := Search(col, "aaaa", KindAll, true, 4)
	require.NoError(t, err)

	assert.Equal(t, "AAAA", result.Airport.Code)
	assert.Equal(t, []string{"BBBB", "CCCC"}, codes(result.Nearby))
}

func TestSearch_WithoutNearby(t *testing.T) {
	col := testCollection(t)

	result, err := Search(col, "AAAA", KindAll, false, 4)
	require.NoError(t, err)

	assert.Equal(t, "AAAA", result.Airport.Code)
	assert.NotNil(t, result.Nearby)
	assert.Empty(t, result.Nearby)
}

func TestSearch_NotFound(t *testing.T) {
	col := testCollection(t)

	_, err := Search(col, "XXXX", KindAll, true, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_FoundWithNoNearbyMatchesIsNotAnError(t *testing.T) {
	col := testCollection(t)

	result, err := Search(col, "AAAA", Kind("seaplane_base"), true, 4)
	require.NoError(t, err)
	assert.Equal(t, "AAAA", result.Airport.Code)
	assert.Empty(t, result.Nearby)
}

func TestSearch_DefaultLimit(t *testing.T) {
	col, _, err := Load(context.Background(), stubSource{rows: []RawAirport{
		{Code: "AAAA", Kind: "small_airport", Lat: "0", Lon: "0"},
		{Code: "BBBB", Kind: "small_airport", Lat: "0", Lon: "1"},
		{Code: "CCCC", Kind: "small_airport", Lat: "0", Lon: "2"},
		{Code: "DDDD", Kind: "small_airport", Lat: "0", Lon: "3"},
		{Code: "EEEE", Kind: "small_airport", Lat: "0", Lon: "4"},
		{Code: "FFFF", Kind: "small_airport", Lat: "0", Lon: "5"},
	}})
	require.NoError(t, err)

	result, err := Search(col, "AAAA", KindAll, true, 0)
	require.NoError(t, err)
	assert.Len(t, result.Nearby, DefaultNearbyLimit)
}

func TestProximity_FormatDistance(t *testing.T) {
	p := Proximity{Distance: 1.23456}
	assert.Equal(t, "1.23", p.FormatDistance(2))
	assert.Equal(t, "1.235", p.FormatDistance(3))
	assert.Equal(t, "1", p.FormatDistance(0))
}

func TestKind_Matches(t *testing.T) {
	assert.True(t, KindLargeAirport.Matches(KindAll))
	assert.True(t, KindLargeAirport.Matches(KindLargeAirport))
	assert.False(t, KindMediumAirport.Matches(KindLargeAirport))
	assert.True(t, Kind("balloonport").Matches(KindAll))
}
