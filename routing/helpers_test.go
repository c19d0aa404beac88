package routing

import (
	"math"
	"math/rand"
	"testing"

	"kuanb/gosm-planner/osm"

	"github.com/stretchr/testify/require"
)

func node(id int64, x, y float64) osm.OsmNode {
	return osm.OsmNode{ID: osm.OsmNodeId(id), X: x, Y: y}
}

// squareGraph is the unit square (0,0) (0,1) (1,1) (1,0) with a 1.5 diagonal
// between (0,0) and (1,1).
func squareGraph(t *testing.T) (*Graph, []*Vertex) {
	t.Helper()
	g := NewGraph()
	vs := []*Vertex{
		g.AddVertex(node(1, 0, 0)),
		g.AddVertex(node(2, 0, 1)),
		g.AddVertex(node(3, 1, 1)),
		g.AddVertex(node(4, 1, 0)),
	}
	for i := range vs {
		_, err := g.AddEdge(vs[i], vs[(i+1)%len(vs)], 1.0)
		require.NoError(t, err)
	}
	_, err := g.AddEdge(vs[0], vs[2], 1.5)
	require.NoError(t, err)
	return g, vs
}

// gridGraph is an n×n lattice with unit spacing, created row by row.
func gridGraph(t *testing.T, n int) *Graph {
	t.Helper()
	g := NewGraph()
	id := int64(1)
	at := make([][]*Vertex, n)
	for y := 0; y < n; y++ {
		at[y] = make([]*Vertex, n)
		for x := 0; x < n; x++ {
			at[y][x] = g.AddVertex(node(id, float64(x), float64(y)))
			id++
		}
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x+1 < n {
				_, err := g.Connect(at[y][x], at[y][x+1])
				require.NoError(t, err)
			}
			if y+1 < n {
				_, err := g.Connect(at[y][x], at[y+1][x])
				require.NoError(t, err)
			}
		}
	}
	return g
}

// randomGraph scatters n vertices and links each to a few random others with
// straight-line weights. Not necessarily connected.
func randomGraph(t *testing.T, seed int64, n, degree int) *Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := NewGraph()
	vs := make([]*Vertex, n)
	for i := range vs {
		vs[i] = g.AddVertex(node(int64(i+1), rng.Float64()*100, rng.Float64()*100))
	}
	for i := range vs {
		for k := 0; k < degree; k++ {
			j := rng.Intn(n)
			if j == i {
				continue
			}
			_, err := g.Connect(vs[i], vs[j])
			require.NoError(t, err)
		}
	}
	return g
}

// dijkstra is an exhaustive O(V²) reference for shortest distances.
func dijkstra(g *Graph, start *Vertex) []float64 {
	dist := make([]float64, g.VertexCount())
	done := make([]bool, g.VertexCount())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[start.Index()] = 0

	for {
		u := -1
		for i := range dist {
			if !done[i] && !math.IsInf(dist[i], 1) && (u < 0 || dist[i] < dist[u]) {
				u = i
			}
		}
		if u < 0 {
			return dist
		}
		done[u] = true
		for _, e := range g.Incident(g.Vertices()[u]) {
			v := e.Other(g.Vertices()[u]).Index()
			if d := dist[u] + e.Weight; d < dist[v] {
				dist[v] = d
			}
		}
	}
}
