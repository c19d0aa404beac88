package osm

import (
	"kuanb/gosm-planner/geom"

	"github.com/paulmach/orb"
)

type OsmWayId int64

type OsmNodeId int64

// OsmNode is a parsed map point. X and Y are the projected plane coordinates.
type OsmNode struct {
	ID  OsmNodeId
	Lat float64
	Lon float64
	X   float64
	Y   float64
}

// Point returns the node's plane coordinate.
func (n OsmNode) Point() orb.Point {
	return orb.Point{n.X, n.Y}
}

type OsmWay struct {
	ID      OsmWayId
	Nodes   []OsmNodeId
	Highway string
	Type    RoadType
}

// IsRoad reports whether the way can carry edges. Footways only count when
// includeFootways is set.
func (w *OsmWay) IsRoad(includeFootways bool) bool {
	switch w.Type {
	case RoadInvalid:
		return false
	case RoadFootway:
		return includeFootways
	default:
		return true
	}
}

// Store holds the primitives decoded from one map file.
type Store struct {
	Nodes map[OsmNodeId]*OsmNode
	Ways  []*OsmWay // input order

	// Bounds is the lon/lat extent of all parsed nodes.
	Bounds     orb.Bound
	Projection geom.Projector
}

func NewStore() *Store {
	return &Store{
		Nodes: make(map[OsmNodeId]*OsmNode),
		Ways:  make([]*OsmWay, 0),
	}
}

func (s *Store) Empty() bool {
	return len(s.Nodes) == 0 && len(s.Ways) == 0
}

// Node looks up a node by id.
func (s *Store) Node(id OsmNodeId) (*OsmNode, bool) {
	n, ok := s.Nodes[id]
	return n, ok
}

// MetricScale converts plane units into metres. Stores that were never
// projected report 1.
func (s *Store) MetricScale() float64 {
	if sc := s.Projection.Scale(); sc > 0 {
		return sc
	}
	return 1
}
