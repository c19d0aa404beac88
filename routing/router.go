package routing

import (
	"context"
	"fmt"
	"runtime"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type routeKey struct {
	start, goal int
}

// Query is a start/end pair in plane coordinates.
type Query struct {
	From orb.Point
	To   orb.Point
}

type RouterConfig struct {
	// SearchTimeout bounds a single search; zero disables it.
	SearchTimeout time.Duration
	// CacheSize is the number of memoised results; zero disables caching.
	CacheSize int
	// Workers bounds concurrent searches in RouteAll.
	Workers int
}

// Router is a routing session over one immutable graph. It is safe for
// concurrent use.
type Router struct {
	graph  *Graph
	config RouterConfig
	cache  *lru.Cache[routeKey, PathResult]
	log    *zap.Logger
}

func NewRouter(g *Graph, config RouterConfig, logger *zap.Logger) (*Router, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	r := &Router{graph: g, config: config, log: logger}
	if config.CacheSize > 0 {
		cache, err := lru.New[routeKey, PathResult](config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("route cache: %w", err)
		}
		r.cache = cache
	}
	return r, nil
}

func (r *Router) Graph() *Graph {
	return r.graph
}

// Route snaps both points to the nearest vertices and searches between them.
func (r *Router) Route(ctx context.Context, from, to orb.Point) (PathResult, error) {
	start, err := FindNearest(r.graph, from[0], from[1])
	if err != nil {
		return PathResult{}, fmt.Errorf("start: %w", err)
	}
	goal, err := FindNearest(r.graph, to[0], to[1])
	if err != nil {
		return PathResult{}, fmt.Errorf("goal: %w", err)
	}
	return r.RouteVertices(ctx, start, goal)
}

// RouteVertices searches between two vertices of the router's graph.
func (r *Router) RouteVertices(ctx context.Context, start, goal *Vertex) (PathResult, error) {
	if !r.graph.Contains(start) || !r.graph.Contains(goal) {
		return PathResult{}, ErrVertexNotInGraph
	}
	key := routeKey{start: start.index, goal: goal.index}
	if r.cache != nil {
		if res, ok := r.cache.Get(key); ok {
			return res.clone(), nil
		}
	}

	if r.config.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.SearchTimeout)
		defer cancel()
	}

	began := time.Now()
	res, err := Search(ctx, r.graph, start, goal)
	if err != nil {
		r.log.Warn("search aborted",
			zap.Int64("start", int64(start.Node.ID)),
			zap.Int64("goal", int64(goal.Node.ID)),
			zap.Error(err))
		return PathResult{}, err
	}

	r.log.Debug("search finished",
		zap.Int64("start", int64(start.Node.ID)),
		zap.Int64("goal", int64(goal.Node.ID)),
		zap.Bool("found", res.Found),
		zap.Int("expanded", res.Expanded),
		zap.Float64("distance", res.Distance),
		zap.Duration("took", time.Since(began)))

	if r.cache != nil {
		r.cache.Add(key, res.clone())
	}
	return res, nil
}

// RouteAll answers queries concurrently. Results keep the order of queries.
// The first failing query cancels the rest.
func (r *Router) RouteAll(ctx context.Context, queries []Query) ([]PathResult, error) {
	results := make([]PathResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i, q := range queries {
		g.Go(func() error {
			res, err := r.Route(ctx, q.From, q.To)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MercatorMeters converts a plane distance from this router's graph into
// Web-Mercator metres.
func (r *Router) MercatorMeters(res PathResult) float64 {
	return res.MercatorMeters(r.graph)
}
