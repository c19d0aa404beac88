package routing

import (
	"container/heap"
	"context"
	"math"

	"kuanb/gosm-planner/geom"
)

type vertexStatus uint8

const (
	unvisited vertexStatus = iota
	open
	closed
)

// vertexState is the per-search bookkeeping for one vertex. A fresh arena is
// allocated for every Search so concurrent searches never share it.
type vertexState struct {
	distance  float64 // from start
	heuristic float64 // to goal
	parent    int
	status    vertexStatus
	item      *frontierItem
}

type searchArena []vertexState

func newSearchArena(n int) searchArena {
	arena := make(searchArena, n)
	for i := range arena {
		arena[i] = vertexState{distance: math.Inf(1), parent: -1}
	}
	return arena
}

// Search runs A* from start to goal using the straight-line distance to goal
// as heuristic. An unreachable goal is not an error: the result has
// Found == false, no path and zero distance. ctx is checked once per expansion.
func Search(ctx context.Context, g *Graph, start, goal *Vertex) (PathResult, error) {
	if g == nil || g.VertexCount() == 0 {
		return PathResult{}, ErrEmptyGraph
	}
	if !g.Contains(start) || !g.Contains(goal) {
		return PathResult{}, ErrVertexNotInGraph
	}
	if start != goal && g.EdgeCount() == 0 {
		return PathResult{}, nil
	}

	goalPoint := goal.Point()
	arena := newSearchArena(g.VertexCount())
	queue := make(frontier, 0)
	heap.Init(&queue)
	var seq uint64

	s := &arena[start.index]
	s.distance = 0
	s.heuristic = geom.Distance(start.Point(), goalPoint)
	s.status = open
	s.item = &frontierItem{vertex: start.index, fScore: s.heuristic, seq: seq}
	heap.Push(&queue, s.item)

	expanded := 0
	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return PathResult{}, err
		}

		item := heap.Pop(&queue).(*frontierItem)
		current := item.vertex
		cs := &arena[current]
		cs.item = nil

		if current == goal.index {
			res := reconstructPath(g, arena, goal)
			res.Expanded = expanded
			return res, nil
		}

		cs.status = closed
		expanded++

		for _, edgeID := range g.adj[current] {
			e := g.edges[edgeID]
			nb := e.Other(g.vertices[current])
			ns := &arena[nb.index]
			if ns.status == closed {
				continue
			}

			candidate := cs.distance + e.Weight
			if ns.status == open && candidate >= ns.distance {
				continue
			}

			ns.distance = candidate
			ns.heuristic = geom.Distance(nb.Point(), goalPoint)
			ns.parent = current
			f := ns.distance + ns.heuristic

			if ns.status == open {
				// keep the first discovery seq so ties still favour it
				ns.item.fScore = f
				heap.Fix(&queue, ns.item.indexInQueue)
				continue
			}
			seq++
			ns.status = open
			ns.item = &frontierItem{vertex: nb.index, fScore: f, seq: seq}
			heap.Push(&queue, ns.item)
		}
	}

	return PathResult{Expanded: expanded}, nil
}
