package osm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"kuanb/gosm-planner/geom"

	"github.com/dsnet/compress/bzip2"
	"github.com/paulmach/orb"
	paulosm "github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/qedus/osmpbf"
	"go.uber.org/zap"
)

// ErrEmptyInput is returned when the raw map bytes hold no parsable nodes.
// The accompanying store is empty but usable.
var ErrEmptyInput = errors.New("map input is empty or has no parsable nodes")

type format int

const (
	formatPBF format = iota
	formatXML
)

var bzip2Magic = []byte("BZh")

type parseOptions struct {
	logger  *zap.Logger
	workers int
}

type ParseOption func(*parseOptions)

// WithLogger sets the logger used for decode statistics.
func WithLogger(logger *zap.Logger) ParseOption {
	return func(o *parseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDecoderWorkers sets how many goroutines decode PBF blobs.
func WithDecoderWorkers(n int) ParseOption {
	return func(o *parseOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Parse decodes an OSM XML or PBF byte stream, optionally bzip2 compressed,
// into a Store with projected node coordinates.
func Parse(data []byte, options ...ParseOption) (*Store, error) {
	opts := parseOptions{
		logger:  zap.NewNop(),
		workers: runtime.GOMAXPROCS(-1),
	}
	for _, o := range options {
		o(&opts)
	}
	log := opts.logger

	if len(bytes.TrimSpace(data)) == 0 {
		return NewStore(), ErrEmptyInput
	}

	raw, err := decompress(data)
	if err != nil {
		log.Warn("failed to decompress map input", zap.Error(err))
		return NewStore(), fmt.Errorf("%w: %v", ErrEmptyInput, err)
	}

	store := NewStore()
	switch detectFormat(raw) {
	case formatXML:
		err = decodeXML(raw, store)
	default:
		err = decodePBF(raw, store, opts.workers)
	}
	if err != nil {
		log.Warn("failed to decode map input", zap.Error(err))
		return NewStore(), fmt.Errorf("%w: %v", ErrEmptyInput, err)
	}
	if len(store.Nodes) == 0 {
		return NewStore(), ErrEmptyInput
	}

	projectNodes(store)

	log.Info("decoded map input",
		zap.Int("nodes", len(store.Nodes)),
		zap.Int("ways", len(store.Ways)),
		zap.Float64("metric_scale", store.MetricScale()))
	return store, nil
}

func decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, bzip2Magic) {
		return data, nil
	}
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func detectFormat(data []byte) format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return formatXML
	}
	return formatPBF
}

func decodeXML(data []byte, store *Store) error {
	scanner := osmxml.New(context.Background(), bytes.NewReader(data))
	defer scanner.Close()

	for scanner.Scan() {
		switch v := scanner.Object().(type) {
		case *paulosm.Node:
			store.addNode(int64(v.ID), v.Lat, v.Lon)
		case *paulosm.Way:
			nodeIDs := make([]OsmNodeId, len(v.Nodes))
			for i, wn := range v.Nodes {
				nodeIDs[i] = OsmNodeId(wn.ID)
			}
			store.addWay(int64(v.ID), v.Tags.Find("highway"), nodeIDs)
		}
	}
	return scanner.Err()
}

func decodePBF(data []byte, store *Store, workers int) error {
	d := osmpbf.NewDecoder(bytes.NewReader(data))

	// use more memory from the start, it is faster
	d.SetBufferSize(osmpbf.MaxBlobSize)

	if err := d.Start(workers); err != nil {
		return err
	}

	for {
		v, err := d.Decode()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		switch v := v.(type) {
		case *osmpbf.Node:
			store.addNode(v.ID, v.Lat, v.Lon)
		case *osmpbf.Way:
			nodeIDs := make([]OsmNodeId, len(v.NodeIDs))
			for i, id := range v.NodeIDs {
				nodeIDs[i] = OsmNodeId(id)
			}
			store.addWay(v.ID, v.Tags["highway"], nodeIDs)
		case *osmpbf.Relation:
			// relations carry no road geometry
		}
	}
}

func (s *Store) addNode(id int64, lat, lon float64) {
	s.Nodes[OsmNodeId(id)] = &OsmNode{
		ID:  OsmNodeId(id),
		Lat: lat,
		Lon: lon,
	}
}

func (s *Store) addWay(id int64, highway string, nodeIDs []OsmNodeId) {
	s.Ways = append(s.Ways, &OsmWay{
		ID:      OsmWayId(id),
		Nodes:   nodeIDs,
		Highway: highway,
		Type:    ClassifyHighway(highway),
	})
}

// projectNodes fills X/Y for every node using the store's lon/lat extent.
func projectNodes(store *Store) {
	first := true
	var bound orb.Bound
	for _, n := range store.Nodes {
		p := orb.Point{n.Lon, n.Lat}
		if first {
			bound = orb.Bound{Min: p, Max: p}
			first = false
			continue
		}
		bound = bound.Extend(p)
	}

	store.Bounds = bound
	store.Projection = geom.NewProjector(bound)
	for _, n := range store.Nodes {
		pt := store.Projection.Project(n.Lon, n.Lat)
		n.X, n.Y = pt[0], pt[1]
	}
}
