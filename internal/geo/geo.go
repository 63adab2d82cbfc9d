package geo

// Point is a WGS84 coordinate pair in (longitude, latitude) order,
// matching the vertex order used by GeoJSON and PostGIS.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BBox is a bounding box as [minLon, minLat, maxLon, maxLat].
type BBox [4]float64

// RingBBox computes the bounding box of a ring. Used as a cheap
// prefilter before the exact containment test.
func RingBBox(ring []Point) BBox {
	if len(ring) == 0 {
		return BBox{}
	}
	b := BBox{ring[0].Lon, ring[0].Lat, ring[0].Lon, ring[0].Lat}
	for _, p := range ring[1:] {
		if p.Lon < b[0] {
			b[0] = p.Lon
		}
		if p.Lat < b[1] {
			b[1] = p.Lat
		}
		if p.Lon > b[2] {
			b[2] = p.Lon
		}
		if p.Lat > b[3] {
			b[3] = p.Lat
		}
	}
	return b
}

// Contains reports whether the point lies inside the bounding box.
func (b BBox) Contains(pt Point) bool {
	return pt.Lon >= b[0] && pt.Lon <= b[2] && pt.Lat >= b[1] && pt.Lat <= b[3]
}

// PointInRing reports whether pt lies inside the polygon ring using the
// even-odd ray casting rule over planar coordinates. Delivery zones are
// small enough that planar distortion is negligible.
//
// Edge rule: a point exactly on a boundary edge is classified by the ray
// parity, which may land on either side. The rule is consistent for a
// given ring but boundary points are not guaranteed to be inside.
func PointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt.Lon, pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}

// ValidLat reports whether lat is a usable latitude.
func ValidLat(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLon reports whether lon is a usable longitude.
func ValidLon(lon float64) bool {
	return lon >= -180 && lon <= 180
}
