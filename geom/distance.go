package geom

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const EarthRadiusMeters = 6371000.0

// Distance is the straight-line distance between two plane points.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// DistanceSquared avoids the square root when only the ordering matters.
func DistanceSquared(a, b orb.Point) float64 {
	return planar.DistanceSquared(a, b)
}

// CompareDistance orders a and b by their distance to q: -1 when a is closer,
// 1 when b is closer and 0 on a tie. It compares (a-b)·((a+b)/2-q) instead of
// squared distances, which overflow for far queries and lose the difference.
func CompareDistance(q, a, b orb.Point) int {
	dx := (a[0] - b[0]) * (a[0]/2 + b[0]/2 - q[0])
	dy := (a[1] - b[1]) * (a[1]/2 + b[1]/2 - q[1])
	switch s := dx + dy; {
	case s < 0:
		return -1
	case s > 0:
		return 1
	default:
		return 0
	}
}

// PathLength sums the straight-line distance of consecutive points.
func PathLength(points []orb.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return planar.Length(orb.LineString(points))
}

// GreatCircleDistance calculates the distance between two points in meters on a spherical earth.
func GreatCircleDistance(lon1, lat1, lon2, lat2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * EarthRadiusMeters
}
