package domain

import (
	"math"
	"regexp"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// pointRe matches the serialized point format used by upstream sources:
// "POINT(<lng> <lat>)", longitude first. Text after the closing parenthesis,
// such as an SRID suffix, is ignored.
var pointRe = regexp.MustCompile(`^POINT\(\s*([^\s()]+)\s+([^\s()]+)\s*\)`)

// LocationSource records which rung of the resolution chain produced a location.
type LocationSource string

const (
	SourceCoordinates         LocationSource = "coordinates"
	SourceAddress             LocationSource = "address"
	SourceMunicipalityMapping LocationSource = "municipality_mapping"
	SourceMunicipalityFuzzy   LocationSource = "municipality_fuzzy"
	SourceFallback            LocationSource = "fallback"
)

// Confidence is the trust level attached to a resolved location.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// LocationResolution is the best-effort position for a record.
//
// HasCoordinates is true only when the record carried its own valid point.
// Latitude and Longitude are also populated for municipality centroids and
// the country fallback; an address-sourced result leaves them nil because
// the engine does not geocode.
type LocationResolution struct {
	HasCoordinates       bool           `json:"has_coordinates"`
	Latitude             *float64       `json:"latitude,omitempty"`
	Longitude            *float64       `json:"longitude,omitempty"`
	Source               LocationSource `json:"source"`
	Confidence           Confidence     `json:"confidence"`
	IsMunicipalityCenter bool           `json:"is_municipality_center"`
	IsFallback           bool           `json:"is_fallback"`
	Municipality         string         `json:"municipality,omitempty"`
	Zoom                 int            `json:"zoom,omitempty"`
	WKT                  string         `json:"wkt,omitempty"`
}

// ResolveLocation walks the fallback chain: the record's own point, then its
// address, then an exact and a fuzzy gazetteer match on the municipality,
// then the country centre. It always returns a result.
func ResolveLocation(r ProjectRecord) LocationResolution {
	if lng, lat, ok := ParsePoint(r.Location); ok {
		return withPoint(LocationResolution{
			HasCoordinates: true,
			Source:         SourceCoordinates,
			Confidence:     ConfidenceHigh,
		}, lat, lng)
	}

	if r.Address != "" {
		return LocationResolution{
			Source:     SourceAddress,
			Confidence: ConfidenceMedium,
		}
	}

	if r.Municipality != "" {
		if e, ok := LookupMunicipality(r.Municipality); ok {
			return municipalityCenter(e, SourceMunicipalityMapping, ConfidenceMedium)
		}
		if e, ok := MatchMunicipality(r.Municipality); ok {
			return municipalityCenter(e, SourceMunicipalityFuzzy, ConfidenceLow)
		}
	}

	res := withPoint(LocationResolution{
		Source:     SourceFallback,
		Confidence: ConfidenceNone,
		IsFallback: true,
	}, CountryCenterLat, CountryCenterLng)
	res.Zoom = CountryCenterZoom
	return res
}

// ParsePoint extracts longitude and latitude from "POINT(<lng> <lat>)".
// Malformed input or non-finite numbers report ok=false.
func ParsePoint(s string) (lng, lat float64, ok bool) {
	m := pointRe.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, 0, false
	}
	lng, errLng := strconv.ParseFloat(m[1], 64)
	lat, errLat := strconv.ParseFloat(m[2], 64)
	if errLng != nil || errLat != nil || !finite(lng) || !finite(lat) {
		return 0, 0, false
	}
	return lng, lat, true
}

func municipalityCenter(e GazetteerEntry, source LocationSource, confidence Confidence) LocationResolution {
	return withPoint(LocationResolution{
		Source:               source,
		Confidence:           confidence,
		IsMunicipalityCenter: true,
		Municipality:         e.Name,
		Zoom:                 e.DefaultZoom,
	}, e.Latitude, e.Longitude)
}

func withPoint(res LocationResolution, lat, lng float64) LocationResolution {
	res.Latitude = &lat
	res.Longitude = &lng
	res.WKT = pointWKT(lat, lng)
	return res
}

// pointWKT renders a WGS-84 point as WKT for callers that store locations
// back in the upstream column format.
func pointWKT(lat, lng float64) string {
	s, err := wkt.Marshal(geom.NewPointFlat(geom.XY, []float64{lng, lat}))
	if err != nil {
		return ""
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
