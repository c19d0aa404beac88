package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kuanb/gosm-planner/osm"
	"kuanb/gosm-planner/routing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T, g *routing.Graph) *httptest.Server {
	t.Helper()
	router, err := routing.NewRouter(g, routing.RouterConfig{CacheSize: 8}, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(New(router, zaptest.NewLogger(t)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func squareGraph(t *testing.T) *routing.Graph {
	t.Helper()
	g := routing.NewGraph()
	vs := []*routing.Vertex{
		g.AddVertex(osm.OsmNode{ID: 1, Lon: 13.000, Lat: 52.000, X: 0, Y: 0}),
		g.AddVertex(osm.OsmNode{ID: 2, Lon: 13.000, Lat: 52.001, X: 0, Y: 1}),
		g.AddVertex(osm.OsmNode{ID: 3, Lon: 13.001, Lat: 52.001, X: 1, Y: 1}),
		g.AddVertex(osm.OsmNode{ID: 4, Lon: 13.001, Lat: 52.000, X: 1, Y: 0}),
	}
	for i := range vs {
		_, err := g.AddEdge(vs[i], vs[(i+1)%len(vs)], 1)
		require.NoError(t, err)
	}
	_, err := g.AddEdge(vs[0], vs[2], 1.5)
	require.NoError(t, err)
	return g
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, squareGraph(t))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouteEndpoint(t *testing.T) {
	ts := newTestServer(t, squareGraph(t))

	var body struct {
		Data routeResponse `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/route?start_x=0&start_y=0&end_x=100&end_y=100", &body)
	require.Equal(t, http.StatusOK, status)

	assert.True(t, body.Data.Found)
	assert.InDelta(t, 1.5, body.Data.Distance, 1e-12)
	assert.Equal(t, 1, body.Data.Expanded)
	assert.Equal(t, [][2]float64{{13.000, 52.000}, {13.001, 52.001}}, body.Data.Path)
	assert.NotEmpty(t, body.Data.Polyline)
	assert.InDelta(t, 130.6, body.Data.GeodesicMeters, 1.0)
}

func TestRouteEndpointOnParsedMap(t *testing.T) {
	data, err := os.ReadFile("../osm/testdata/sample.osm.pbf")
	require.NoError(t, err)
	g, err := routing.BuildGraph(data)
	require.NoError(t, err)
	ts := newTestServer(t, g)

	var body struct {
		Data routeResponse `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/route?start_x=0&start_y=0&end_x=100&end_y=100", &body)
	require.Equal(t, http.StatusOK, status)

	assert.True(t, body.Data.Found)
	assert.Len(t, body.Data.Path, 3)
	assert.InDelta(t, 179.7, body.Data.GeodesicMeters, 1.0)
	assert.Greater(t, body.Data.MercatorMeters, body.Data.GeodesicMeters)

	assert.InDelta(t, 13.0, body.Data.From[0], 1e-9)
	assert.InDelta(t, 52.0, body.Data.From[1], 1e-9)
	// one plane unit is the east-west extent, less than the north-south one
	assert.InDelta(t, 13.001, body.Data.To[0], 1e-9)
	assert.Greater(t, body.Data.To[1], 52.0)
	assert.Less(t, body.Data.To[1], 52.001)
}

func TestRouteEndpointBadRequest(t *testing.T) {
	ts := newTestServer(t, squareGraph(t))

	testCases := []struct {
		name  string
		query string
	}{
		{name: "missing end", query: "start_x=0&start_y=0&end_x=100"},
		{name: "not a number", query: "start_x=a&start_y=0&end_x=1&end_y=1"},
		{name: "above range", query: "start_x=150&start_y=0&end_x=1&end_y=1"},
		{name: "below range", query: "start_x=0&start_y=-1&end_x=1&end_y=1"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			status := getJSON(t, ts.URL+"/api/route?"+tt.query, &body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRouteEndpointEmptyGraph(t *testing.T) {
	ts := newTestServer(t, routing.NewGraph())

	var body map[string]string
	status := getJSON(t, ts.URL+"/api/route?start_x=0&start_y=0&end_x=1&end_y=1", &body)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body["error"], "graph has no vertices")
}

func TestNetworkEndpoint(t *testing.T) {
	ts := newTestServer(t, squareGraph(t))

	resp, err := http.Get(ts.URL + "/api/network")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 5)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, squareGraph(t))

	var m RuntimeMetrics
	status := getJSON(t, ts.URL+"/metrics", &m)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, m.Vertices)
	assert.Equal(t, 5, m.Edges)
	assert.Positive(t, m.Goroutines)
}

func TestRecoverPanic(t *testing.T) {
	s := New(nil, zaptest.NewLogger(t))
	h := s.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}
