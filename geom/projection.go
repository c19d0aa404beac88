package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projector maps lon/lat into a plane where the map's shorter side spans [0, 1].
// Web-Mercator metres are shifted to the south-west corner of the bounds and
// divided by the metric scale.
type Projector struct {
	minX  float64
	minY  float64
	scale float64
}

// NewProjector builds a projector for the given lon/lat bounds.
func NewProjector(bound orb.Bound) Projector {
	lo := project.WGS84.ToMercator(bound.Min)
	hi := project.WGS84.ToMercator(bound.Max)

	dx := hi[0] - lo[0]
	dy := hi[1] - lo[1]
	scale := math.Min(dx, dy)
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		// a single road along a meridian or parallel collapses one axis
		scale = math.Max(dx, dy)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}

	return Projector{minX: lo[0], minY: lo[1], scale: scale}
}

// Project converts a lon/lat pair to plane coordinates.
func (p Projector) Project(lon, lat float64) orb.Point {
	m := project.WGS84.ToMercator(orb.Point{lon, lat})
	return orb.Point{(m[0] - p.minX) / p.scale, (m[1] - p.minY) / p.scale}
}

// Unproject is the inverse of Project and returns an orb point as lon/lat.
func (p Projector) Unproject(pt orb.Point) orb.Point {
	m := orb.Point{pt[0]*p.scale + p.minX, pt[1]*p.scale + p.minY}
	return project.Mercator.ToWGS84(m)
}

// Scale is the number of metres per plane unit.
func (p Projector) Scale() float64 {
	return p.scale
}
