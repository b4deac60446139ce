package geo

import "errors"

// ErrInvalidGeometry is returned when a waypoint sequence cannot form a path.
var ErrInvalidGeometry = errors.New("invalid geometry: waypoints must be an even-length list of lat/lng pairs")

// Point is a GeoJSON point in WGS84. Coordinates are [longitude, latitude].
type Point struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Path is a GeoJSON line string in WGS84. Each element is [longitude, latitude].
type Path struct {
	Type        string      `bson:"type" json:"type"`
	Coordinates [][]float64 `bson:"coordinates" json:"coordinates"`
}

// NewPoint builds a point from a latitude/longitude pair. Values are not
// range-checked; out-of-range coordinates are stored as given.
func NewPoint(lat, lng float64) Point {
	return Point{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lat returns the latitude of the point.
func (p Point) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Lng returns the longitude of the point.
func (p Point) Lng() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

// NewPath builds a line string running start -> waypoints -> end. Waypoints
// are a flat sequence of alternating latitude/longitude values and are kept
// in input order. An odd-length sequence fails with ErrInvalidGeometry.
func NewPath(start, end Point, waypoints []float64) (Path, error) {
	if len(waypoints)%2 != 0 {
		return Path{}, ErrInvalidGeometry
	}

	coords := make([][]float64, 0, len(waypoints)/2+2)
	coords = append(coords, []float64{start.Lng(), start.Lat()})
	for i := 0; i < len(waypoints); i += 2 {
		coords = append(coords, []float64{waypoints[i+1], waypoints[i]})
	}
	coords = append(coords, []float64{end.Lng(), end.Lat()})

	return Path{Type: "LineString", Coordinates: coords}, nil
}
