// Package render turns a road graph and a search result into formats an
// external map renderer can draw: GeoJSON in lon/lat and encoded polylines.
package render

import (
	"kuanb/gosm-planner/routing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

const (
	networkStroke = "#8a8a8a"
	pathStroke    = "#ff6f00"
)

func lonLat(v *routing.Vertex) orb.Point {
	return orb.Point{v.Node.Lon, v.Node.Lat}
}

// NetworkCollection returns every edge of g as a LineString feature.
func NetworkCollection(g *routing.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	appendNetwork(fc, g)
	return fc
}

func appendNetwork(fc *geojson.FeatureCollection, g *routing.Graph) {
	for _, e := range g.Edges() {
		f := geojson.NewFeature(orb.LineString{lonLat(e.A), lonLat(e.B)})
		f.Properties["kind"] = "road"
		f.Properties["weight"] = e.Weight
		f.Properties["stroke"] = networkStroke
		fc.Append(f)
	}
}

// PathFeature draws a search result. An empty result gives a feature with an
// empty LineString and found=false.
func PathFeature(g *routing.Graph, res routing.PathResult) *geojson.Feature {
	line := make(orb.LineString, 0, len(res.Vertices))
	for _, v := range res.Vertices {
		line = append(line, lonLat(v))
	}

	f := geojson.NewFeature(line)
	f.Properties["kind"] = "path"
	f.Properties["found"] = res.Found
	f.Properties["distance"] = res.Distance
	f.Properties["meters"] = res.GeodesicMeters()
	f.Properties["mercator_meters"] = res.MercatorMeters(g)
	f.Properties["stroke"] = pathStroke
	return f
}

// RouteCollection is the full network with the path feature last, so it is
// drawn on top.
func RouteCollection(g *routing.Graph, res routing.PathResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	appendNetwork(fc, g)
	fc.Append(PathFeature(g, res))
	return fc
}

// EncodePolyline encodes the path's lat/lon points in Google polyline format.
func EncodePolyline(res routing.PathResult) string {
	coords := make([][]float64, 0, len(res.Vertices))
	for _, v := range res.Vertices {
		coords = append(coords, []float64{v.Node.Lat, v.Node.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
