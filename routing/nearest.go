package routing

import (
	"math"

	"kuanb/gosm-planner/geom"

	"github.com/paulmach/orb"
)

// graphs this small are scanned rather than indexed
const linearScanLimit = 64

// FindNearest snaps (x, y) to the closest vertex by straight-line distance to
// the vertex coordinate. Ties go to the earliest created vertex. Vertices
// without edges are never returned unless the graph has only one vertex.
func FindNearest(g *Graph, x, y float64) (*Vertex, error) {
	if g == nil || g.VertexCount() == 0 {
		return nil, ErrEmptyGraph
	}
	if !finite(x) || !finite(y) {
		return nil, ErrInvalidCoordinate
	}
	if g.VertexCount() == 1 {
		return g.vertices[0], nil
	}

	q := orb.Point{x, y}
	if g.VertexCount() <= linearScanLimit {
		return nearestLinear(g, q), nil
	}

	idx := g.nearestIndex()
	item, ok := idx.Nearest(q, g.radius)
	if !ok {
		// every vertex is isolated
		return g.vertices[0], nil
	}
	return g.vertices[item.ID], nil
}

// Nearest is FindNearest on g.
func (g *Graph) Nearest(x, y float64) (*Vertex, error) {
	return FindNearest(g, x, y)
}

// nearestLinear is the O(V) scan the index must agree with.
func nearestLinear(g *Graph, q orb.Point) *Vertex {
	var best *Vertex
	for _, v := range g.vertices {
		if len(g.adj[v.index]) == 0 && g.VertexCount() > 1 {
			continue
		}
		if best == nil || geom.CompareDistance(q, v.Point(), best.Point()) < 0 {
			best = v
		}
	}
	if best == nil {
		return g.vertices[0]
	}
	return best
}

func (g *Graph) nearestIndex() *geom.RTree {
	g.indexOnce.Do(func() {
		idx := geom.NewRTree()
		for _, v := range g.vertices {
			if len(g.adj[v.index]) == 0 {
				continue
			}
			idx.InsertPoint(v.index, v.Point())
		}
		g.index = idx
		g.radius = startRadius(idx)
	})
	return g.index
}

// startRadius is the first search window: roughly the spacing of evenly
// spread vertices over the indexed extent.
func startRadius(idx *geom.RTree) float64 {
	b := idx.Bound()
	side := math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
	if side <= 0 || idx.Size() == 0 {
		return 1
	}
	return side / math.Sqrt(float64(idx.Size()))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
