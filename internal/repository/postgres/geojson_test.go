package postgres

import (
	"strings"
	"testing"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
)

const squarePolygon = `{"type":"Polygon","coordinates":[[[77.50,12.90],[77.55,12.90],[77.55,12.95],[77.50,12.95],[77.50,12.90]]]}`

func TestGeometryNode_Polygon(t *testing.T) {
	node, err := geometryNode(domain.RawJSON(squarePolygon))
	if err != nil {
		t.Fatal(err)
	}
	if string(node) != squarePolygon {
		t.Fatalf("node = %s", node)
	}
}

func TestGeometryNode_Feature(t *testing.T) {
	feature := `{"type":"Feature","properties":{},"geometry":` + squarePolygon + `}`
	node, err := geometryNode(domain.RawJSON(feature))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(node), `"Polygon"`) {
		t.Fatalf("node = %s", node)
	}
	if strings.Contains(string(node), `"Feature"`) {
		t.Fatalf("feature wrapper not unwrapped: %s", node)
	}
}

func TestGeometryNode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"point geometry", `{"type":"Point","coordinates":[77.5,12.9]}`},
		{"feature without geometry", `{"type":"Feature","properties":{}}`},
		{"empty rings", `{"type":"Polygon","coordinates":[]}`},
		{"short ring", `{"type":"Polygon","coordinates":[[[77.5,12.9],[77.6,12.9],[77.5,12.9]]]}`},
		{"not json", `drop table zones`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := geometryNode(domain.RawJSON(tt.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExteriorRing(t *testing.T) {
	points, err := ExteriorRing(domain.RawJSON(squarePolygon))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 {
		t.Fatalf("len(points) = %d, want 5", len(points))
	}
	if points[0].Lon != 77.50 || points[0].Lat != 12.90 {
		t.Fatalf("points[0] = %+v", points[0])
	}
	if points[2].Lon != 77.55 || points[2].Lat != 12.95 {
		t.Fatalf("points[2] = %+v", points[2])
	}
}

func TestExteriorRing_Feature(t *testing.T) {
	feature := `{"type":"Feature","geometry":` + squarePolygon + `}`
	points, err := ExteriorRing(domain.RawJSON(feature))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 {
		t.Fatalf("len(points) = %d, want 5", len(points))
	}
}
