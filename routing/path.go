package routing

import (
	"kuanb/gosm-planner/geom"

	"github.com/paulmach/orb"
)

// PathResult is the outcome of one search. It belongs to the caller.
type PathResult struct {
	Path     []orb.Point // plane coordinates, start to goal
	Vertices []*Vertex
	Distance float64 // plane units, summed over Path
	Found    bool
	Expanded int // vertices closed by the search
}

// MercatorMeters converts the plane distance using the graph's metric scale.
// The result is in Web-Mercator metres, which overstate ground distance by
// 1/cos(latitude); GeodesicMeters is the ground length.
func (r PathResult) MercatorMeters(g *Graph) float64 {
	return r.Distance * g.MetricScale()
}

// GeodesicMeters is the great-circle length through the path's lon/lat points.
func (r PathResult) GeodesicMeters() float64 {
	total := 0.0
	for i := 1; i < len(r.Vertices); i++ {
		a, b := r.Vertices[i-1].Node, r.Vertices[i].Node
		total += geom.GreatCircleDistance(a.Lon, a.Lat, b.Lon, b.Lat)
	}
	return total
}

// clone copies the slices so cached results cannot be altered by callers.
func (r PathResult) clone() PathResult {
	out := r
	if r.Path != nil {
		out.Path = append([]orb.Point(nil), r.Path...)
	}
	if r.Vertices != nil {
		out.Vertices = append([]*Vertex(nil), r.Vertices...)
	}
	return out
}

// reconstructPath walks parent links from goal back to the start vertex.
// The distance is recomputed from the edges along the path, not taken from
// the arena.
func reconstructPath(g *Graph, arena searchArena, goal *Vertex) PathResult {
	vertices := make([]*Vertex, 0)
	for cur, steps := goal.index, 0; cur != -1; cur, steps = arena[cur].parent, steps+1 {
		if steps > len(arena) {
			// parent links always form a tree; a longer walk means corrupt state
			return PathResult{}
		}
		vertices = append(vertices, g.vertices[cur])
	}

	for i, j := 0, len(vertices)-1; i < j; i, j = i+1, j-1 {
		vertices[i], vertices[j] = vertices[j], vertices[i]
	}

	path := make([]orb.Point, len(vertices))
	distance := 0.0
	for i, v := range vertices {
		path[i] = v.Point()
		if i > 0 {
			distance += g.segmentWeight(vertices[i-1], v)
		}
	}

	return PathResult{
		Path:     path,
		Vertices: vertices,
		Distance: distance,
		Found:    true,
	}
}

// segmentWeight is the cheapest edge between a and b. Built graphs weight
// edges by straight-line distance, so this equals the Euclidean length.
func (g *Graph) segmentWeight(a, b *Vertex) float64 {
	best := -1.0
	for _, id := range g.adj[a.index] {
		e := g.edges[id]
		if e.Other(a) == b && (best < 0 || e.Weight < best) {
			best = e.Weight
		}
	}
	if best < 0 {
		return geom.Distance(a.Point(), b.Point())
	}
	return best
}
