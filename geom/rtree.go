package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// RTreeItem represents a point stored in the RTree
type RTreeItem struct {
	ID    int
	Point orb.Point
}

// RTree wraps tidwall/rtree for nearest point lookups
type RTree struct {
	tree   *rtree.RTreeG[RTreeItem]
	bound  orb.Bound
	filled bool
}

// NewRTree creates a new RTree
func NewRTree() *RTree {
	return &RTree{
		tree: &rtree.RTreeG[RTreeItem]{},
	}
}

// InsertPoint adds a point item to the RTree
func (r *RTree) InsertPoint(id int, p orb.Point) {
	r.tree.Insert(
		[2]float64{p[0], p[1]},
		[2]float64{p[0], p[1]},
		RTreeItem{ID: id, Point: p},
	)
	if !r.filled {
		r.bound = orb.Bound{Min: p, Max: p}
		r.filled = true
		return
	}
	r.bound = r.bound.Extend(p)
}

// Search returns all items whose bounding boxes intersect with the query bbox
func (r *RTree) Search(min, max orb.Point) []RTreeItem {
	result := make([]RTreeItem, 0)
	r.tree.Search(
		[2]float64{min[0], min[1]},
		[2]float64{max[0], max[1]},
		func(min, max [2]float64, item RTreeItem) bool {
			result = append(result, item)
			return true // continue searching
		},
	)
	return result
}

// Nearest returns the item closest to q. Equidistant items resolve to the
// lowest ID. The search window starts at radius and doubles until a hit lies
// inside the circle it covers.
func (r *RTree) Nearest(q orb.Point, radius float64) (RTreeItem, bool) {
	if r.Size() == 0 {
		return RTreeItem{}, false
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = 1
	}

	for {
		window := orb.Bound{
			Min: orb.Point{q[0] - radius, q[1] - radius},
			Max: orb.Point{q[0] + radius, q[1] + radius},
		}
		covers := window.Contains(r.bound.Min) && window.Contains(r.bound.Max)

		best, found := RTreeItem{}, false
		for _, item := range r.Search(window.Min, window.Max) {
			if !found {
				best, found = item, true
				continue
			}
			if c := CompareDistance(q, item.Point, best.Point); c < 0 || (c == 0 && item.ID < best.ID) {
				best = item
			}
		}

		// anything closer than radius is inside the window
		if found && (covers || DistanceSquared(q, best.Point) <= radius*radius) {
			return best, true
		}
		if covers {
			return RTreeItem{}, false
		}
		radius *= 2
	}
}

// Bound is the extent of all inserted points.
func (r *RTree) Bound() orb.Bound {
	return r.bound
}

// Size returns the number of items in the RTree
func (r *RTree) Size() int {
	return r.tree.Len()
}
