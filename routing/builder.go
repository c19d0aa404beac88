package routing

import (
	"kuanb/gosm-planner/geom"
	"kuanb/gosm-planner/osm"

	"go.uber.org/zap"
)

type buildOptions struct {
	logger          *zap.Logger
	includeFootways bool
	decoderWorkers  int
}

type BuildOption func(*buildOptions)

// WithLogger sets the logger used while parsing and building.
func WithLogger(logger *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFootways lets footway, path and steps ways contribute edges.
func WithFootways(include bool) BuildOption {
	return func(o *buildOptions) {
		o.includeFootways = include
	}
}

// WithDecoderWorkers sets how many goroutines decode PBF input. Zero keeps the
// parser default.
func WithDecoderWorkers(n int) BuildOption {
	return func(o *buildOptions) {
		o.decoderWorkers = n
	}
}

func newBuildOptions(options []BuildOption) buildOptions {
	opts := buildOptions{logger: zap.NewNop()}
	for _, o := range options {
		o(&opts)
	}
	return opts
}

// BuildGraph parses raw map bytes and builds the road graph. The graph is
// never nil: a parse failure yields an empty graph alongside the error.
func BuildGraph(raw []byte, options ...BuildOption) (*Graph, error) {
	opts := newBuildOptions(options)
	store, err := osm.Parse(raw,
		osm.WithLogger(opts.logger),
		osm.WithDecoderWorkers(opts.decoderWorkers))
	g := Build(store, options...)
	return g, err
}

// Build derives the undirected road graph from a store. Consecutive node pairs
// of every road way become edges weighted by their plane distance.
func Build(store *osm.Store, options ...BuildOption) *Graph {
	opts := newBuildOptions(options)
	log := opts.logger

	g := NewGraph()
	if store == nil {
		log.Warn("no map data; graph is empty")
		return g
	}
	g.projection = store.Projection
	g.metricScale = store.MetricScale()

	for _, way := range store.Ways {
		if !way.IsRoad(opts.includeFootways) {
			g.stats.IgnoredWays++
			continue
		}
		g.stats.RoadWays++
		if len(way.Nodes) < 2 {
			continue
		}

		for i := 0; i+1 < len(way.Nodes); i++ {
			from, okFrom := store.Node(way.Nodes[i])
			to, okTo := store.Node(way.Nodes[i+1])
			if !okFrom || !okTo {
				g.stats.SkippedSegments++
				continue
			}
			if from.ID == to.ID {
				continue
			}
			a := g.AddVertex(*from)
			b := g.AddVertex(*to)
			// weights are stored once here and never recomputed during search
			g.edges = append(g.edges, &Edge{A: a, B: b, Weight: geom.Distance(a.Point(), b.Point())})
			id := len(g.edges) - 1
			g.adj[a.index] = append(g.adj[a.index], id)
			g.adj[b.index] = append(g.adj[b.index], id)
		}
	}

	log.Info("built road graph",
		zap.Int("vertices", g.VertexCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("road_ways", g.stats.RoadWays),
		zap.Int("ignored_ways", g.stats.IgnoredWays))
	if g.stats.SkippedSegments > 0 {
		log.Warn("dropped way segments referencing unknown nodes",
			zap.Int("segments", g.stats.SkippedSegments))
	}
	if g.EdgeCount() == 0 {
		log.Warn("road graph has no edges")
	}
	return g
}
