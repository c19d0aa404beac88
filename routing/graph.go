package routing

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"kuanb/gosm-planner/geom"
	"kuanb/gosm-planner/osm"

	"github.com/paulmach/orb"
)

var (
	ErrEmptyGraph        = errors.New("graph has no vertices")
	ErrVertexNotInGraph  = errors.New("vertex does not belong to graph")
	ErrInvalidWeight     = errors.New("edge weight must be finite and non-negative")
	ErrInvalidCoordinate = errors.New("coordinate must be finite")
)

// Vertex is a graph node backed by an OSM node. It carries no search state.
type Vertex struct {
	Node  osm.OsmNode
	index int
}

// Index is the vertex's creation order within its graph.
func (v *Vertex) Index() int {
	return v.index
}

func (v *Vertex) Point() orb.Point {
	return v.Node.Point()
}

// Edge is undirected; Weight applies in both directions.
type Edge struct {
	A      *Vertex
	B      *Vertex
	Weight float64
}

// Other returns the endpoint opposite v.
func (e *Edge) Other(v *Vertex) *Vertex {
	if e.A == v {
		return e.B
	}
	return e.A
}

type BuildStats struct {
	RoadWays        int
	IgnoredWays     int
	SkippedSegments int // segments naming a node id missing from the store
}

// Graph owns vertices and edges. It is read-only once built, apart from the
// lazily created nearest index.
type Graph struct {
	vertices []*Vertex
	edges    []*Edge
	adj      [][]int // vertex index -> edge indices
	byID     map[osm.OsmNodeId]*Vertex

	projection  geom.Projector
	metricScale float64
	stats       BuildStats

	indexOnce sync.Once
	index     *geom.RTree
	radius    float64
}

func NewGraph() *Graph {
	return &Graph{
		vertices:    make([]*Vertex, 0),
		edges:       make([]*Edge, 0),
		adj:         make([][]int, 0),
		byID:        make(map[osm.OsmNodeId]*Vertex),
		metricScale: 1,
	}
}

// AddVertex returns the vertex for node, creating it on first reference.
func (g *Graph) AddVertex(node osm.OsmNode) *Vertex {
	if v, ok := g.byID[node.ID]; ok {
		return v
	}
	v := &Vertex{Node: node, index: len(g.vertices)}
	g.vertices = append(g.vertices, v)
	g.adj = append(g.adj, nil)
	g.byID[node.ID] = v
	return v
}

// AddEdge connects a and b with an explicit weight.
func (g *Graph) AddEdge(a, b *Vertex, weight float64) (*Edge, error) {
	if !g.Contains(a) || !g.Contains(b) {
		return nil, ErrVertexNotInGraph
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeight, weight)
	}
	e := &Edge{A: a, B: b, Weight: weight}
	id := len(g.edges)
	g.edges = append(g.edges, e)
	g.adj[a.index] = append(g.adj[a.index], id)
	if a != b {
		g.adj[b.index] = append(g.adj[b.index], id)
	}
	return e, nil
}

// Connect adds an edge weighted by the straight-line distance of its endpoints.
func (g *Graph) Connect(a, b *Vertex) (*Edge, error) {
	return g.AddEdge(a, b, geom.Distance(a.Point(), b.Point()))
}

// Contains reports whether v is a vertex of g.
func (g *Graph) Contains(v *Vertex) bool {
	return v != nil && v.index >= 0 && v.index < len(g.vertices) && g.vertices[v.index] == v
}

func (g *Graph) Vertex(id osm.OsmNodeId) (*Vertex, bool) {
	v, ok := g.byID[id]
	return v, ok
}

// Vertices returns the vertices in creation order. Callers must not modify it.
func (g *Graph) Vertices() []*Vertex {
	return g.vertices
}

// Edges returns every edge in insertion order. Callers must not modify it.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Incident returns the edges touching v.
func (g *Graph) Incident(v *Vertex) []*Edge {
	if !g.Contains(v) {
		return nil
	}
	ids := g.adj[v.index]
	out := make([]*Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// Degree counts the edges touching v.
func (g *Graph) Degree(v *Vertex) int {
	if !g.Contains(v) {
		return 0
	}
	return len(g.adj[v.index])
}

// MetricScale converts plane distances into metres.
func (g *Graph) MetricScale() float64 {
	return g.metricScale
}

// Projection returns the projector used to place vertices on the plane.
func (g *Graph) Projection() geom.Projector {
	return g.projection
}

func (g *Graph) Stats() BuildStats {
	return g.stats
}
