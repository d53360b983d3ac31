package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SebInfo/AeroportsProches/airports"
	"github.com/SebInfo/AeroportsProches/config"
	"github.com/SebInfo/AeroportsProches/pkg/buildinfo"
)

// AirportResponse is the wire shape of one airport.
type AirportResponse struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyResponse is one nearest-neighbor result: the airport plus its
// distance from the reference, raw and formatted for display.
type NearbyResponse struct {
	AirportResponse
	Distance        float64 `json:"distance"`
	DistanceDisplay string  `json:"distance_display"`
}

// SearchResponse is the full answer to a search: the reference airport, its
// nearby matches (empty unless nearby search was requested), and a payload
// with everything a map widget needs to plot them.
type SearchResponse struct {
	Airport AirportResponse  `json:"airport"`
	Nearby  []NearbyResponse `json:"nearby"`
	Map     MapResponse      `json:"map"`
}

// MapResponse carries map-ready plotting data: a center point, one marker
// per airport, and the bounds enclosing all of them.
type MapResponse struct {
	Center  [2]float64   `json:"center"`
	Markers []MapMarker  `json:"markers"`
	Bounds  [][2]float64 `json:"bounds"`
}

// MapMarker is one plottable point.
type MapMarker struct {
	Code      string  `json:"code"`
	Label     string  `json:"label"`
	Popup     string  `json:"popup"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Reference bool    `json:"reference"`
}

func airportResponse(a airports.Airport) AirportResponse {
	return AirportResponse{
		Code:      a.Code,
		Name:      a.Name,
		Kind:      string(a.Kind),
		Country:   a.Country,
		Latitude:  a.Position.Lat,
		Longitude: a.Position.Lon,
	}
}

func nearbyResponses(nearby []airports.Proximity, decimals int) []NearbyResponse {
	out := make([]NearbyResponse, 0, len(nearby))
	for _, p := range nearby {
		out = append(out, NearbyResponse{
			AirportResponse: airportResponse(p.Airport),
			Distance:        p.Distance,
			DistanceDisplay: p.FormatDistance(decimals),
		})
	}
	return out
}

func mapResponse(result *airports.SearchResult, decimals int) MapResponse {
	ref := result.Airport
	m := MapResponse{
		Center: [2]float64{ref.Position.Lat, ref.Position.Lon},
		Markers: []MapMarker{{
			Code:      ref.Code,
			Label:     ref.Name,
			Popup:     ref.Name,
			Latitude:  ref.Position.Lat,
			Longitude: ref.Position.Lon,
			Reference: true,
		}},
		Bounds: [][2]float64{{ref.Position.Lat, ref.Position.Lon}},
	}
	for _, p := range result.Nearby {
		a := p.Airport
		m.Markers = append(m.Markers, MapMarker{
			Code:      a.Code,
			Label:     a.Name,
			Popup:     a.Name + " (" + p.FormatDistance(decimals) + ")",
			Latitude:  a.Position.Lat,
			Longitude: a.Position.Lon,
		})
		m.Bounds = append(m.Bounds, [2]float64{a.Position.Lat, a.Position.Lon})
	}
	return m
}

func renderQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, airports.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "airport not found"})
	case errors.Is(err, airports.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseLimit reads a limit query parameter, falling back to def when absent.
func parseLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

func parseKind(c *gin.Context) airports.Kind {
	raw := strings.ToLower(strings.TrimSpace(c.DefaultQuery("type", string(airports.KindAll))))
	if raw == "" {
		return airports.KindAll
	}
	return airports.Kind(raw)
}

// Health returns a handler reporting service and dataset status.
func Health(col *airports.Collection, stats airports.LoadStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"build":    buildinfo.Info(),
			"airports": col.Len(),
			"dataset":  stats,
		})
	}
}

// GetAirports returns a handler listing the loaded collection, optionally
// filtered by kind and country.
func GetAirports(col *airports.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := parseKind(c)
		country := strings.ToUpper(strings.TrimSpace(c.Query("country")))

		list := []AirportResponse{}
		for _, a := range col.All() {
			if !a.Kind.Matches(kind) {
				continue
			}
			if country != "" && a.Country != country {
				continue
			}
			list = append(list, airportResponse(a))
		}
		c.JSON(http.StatusOK, gin.H{"airports": list, "count": len(list)})
	}
}

// GetAirport returns a handler for looking up one airport by code.
func GetAirport(col *airports.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := col.Get(c.Param("code"))
		if err != nil {
			renderQueryError(c, err)
			return
		}
		c.JSON(http.StatusOK, airportResponse(a))
	}
}

// GetNearby returns a handler for the nearest-airports query around a known
// airport code.
func GetNearby(col *airports.Collection, cfg config.DatasetConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := parseLimit(c, cfg.NearbyLimit)
		if !ok {
			return
		}

		result, err := airports.Search(col, c.Param("code"), parseKind(c), true, limit)
		if err != nil {
			renderQueryError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"airport": airportResponse(result.Airport),
			"nearby":  nearbyResponses(result.Nearby, cfg.DistanceDecimals),
		})
	}
}

// SearchAirports returns the handler behind the search form: code, type
// filter, a flag toggling nearby search, and a result limit. The response
// carries the map payload the presentation layer plots.
func SearchAirports(col *airports.Collection, cfg config.DatasetConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if strings.TrimSpace(code) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}

		limit, ok := parseLimit(c, cfg.NearbyLimit)
		if !ok {
			return
		}

		nearby := false
		if raw := c.Query("nearby"); raw != "" {
			// Checkbox style: "on" counts as true alongside the usual
			// boolean spellings.
			if raw == "on" {
				nearby = true
			} else {
				parsed, err := strconv.ParseBool(raw)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "nearby must be a boolean"})
					return
				}
				nearby = parsed
			}
		}

		result, err := airports.Search(col, code, parseKind(c), nearby, limit)
		if err != nil {
			renderQueryError(c, err)
			return
		}

		c.JSON(http.StatusOK, SearchResponse{
			Airport: airportResponse(result.Airport),
			Nearby:  nearbyResponses(result.Nearby, cfg.DistanceDecimals),
			Map:     mapResponse(result, cfg.DistanceDecimals),
		})
	}
}
