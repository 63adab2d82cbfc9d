package postgres

import (
	"fmt"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/geo"

	"github.com/goccy/go-json"
)

// Zones are drawn in the admin map tool and arrive either as a bare
// GeoJSON Polygon or wrapped in a Feature. Only single-ring polygons are
// supported; zones have no holes.

type geojsonDoc struct {
	Type        string          `json:"type"`
	Coordinates [][][2]float64  `json:"coordinates"`
	Geometry    json.RawMessage `json:"geometry"`
}

// geometryNode unwraps a Feature to its geometry member and validates
// that the result is a Polygon ST_GeomFromGeoJSON will accept.
func geometryNode(doc domain.RawJSON) (domain.RawJSON, error) {
	var parsed geojsonDoc
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	switch parsed.Type {
	case "Feature":
		if len(parsed.Geometry) == 0 {
			return nil, fmt.Errorf("geojson feature has no geometry")
		}
		return geometryNode(domain.RawJSON(parsed.Geometry))
	case "Polygon":
		if _, err := ring(parsed); err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported geojson type %q, want Polygon", parsed.Type)
	}
}

// ExteriorRing extracts the polygon's exterior ring as (lon, lat)
// vertices for the in-process containment test.
func ExteriorRing(doc domain.RawJSON) ([]geo.Point, error) {
	var parsed geojsonDoc
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if parsed.Type == "Feature" {
		return ExteriorRing(domain.RawJSON(parsed.Geometry))
	}
	if parsed.Type != "Polygon" {
		return nil, fmt.Errorf("unsupported geojson type %q, want Polygon", parsed.Type)
	}
	return ring(parsed)
}

func ring(parsed geojsonDoc) ([]geo.Point, error) {
	if len(parsed.Coordinates) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	exterior := parsed.Coordinates[0]
	if len(exterior) < 4 {
		return nil, fmt.Errorf("polygon ring has %d vertices, want at least 4", len(exterior))
	}

	points := make([]geo.Point, len(exterior))
	for i, c := range exterior {
		points[i] = geo.Point{Lon: c[0], Lat: c[1]}
	}
	return points, nil
}
