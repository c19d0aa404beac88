package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"kuanb/gosm-planner/render"
	"kuanb/gosm-planner/routing"

	"github.com/julienschmidt/httprouter"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// percent inputs are scaled into plane units, like the interactive driver
const percentToPlane = 0.01

type envelope map[string]any

type routeRequest struct {
	StartX float64 `validate:"min=0,max=100"`
	StartY float64 `validate:"min=0,max=100"`
	EndX   float64 `validate:"min=0,max=100"`
	EndY   float64 `validate:"min=0,max=100"`
}

type routeResponse struct {
	Found          bool         `json:"found"`
	Distance       float64      `json:"distance"`
	MercatorMeters float64      `json:"mercator_meters"`
	GeodesicMeters float64      `json:"geodesic_meters"`
	Expanded       int          `json:"expanded"`
	Polyline       string       `json:"polyline"`
	Path           [][2]float64 `json:"path"`
	// requested points in lon/lat, before snapping
	From [2]float64 `json:"from"`
	To   [2]float64 `json:"to"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	var req routeRequest
	fields := []struct {
		name string
		dst  *float64
	}{
		{"start_x", &req.StartX},
		{"start_y", &req.StartY},
		{"end_x", &req.EndX},
		{"end_y", &req.EndY},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(query.Get(f.name), 64)
		if err != nil {
			s.badRequestResponse(w, r, fmt.Errorf("%s is required and must be a valid float", f.name))
			return
		}
		*f.dst = v
	}
	if err := s.validate.Struct(req); err != nil {
		s.badRequestResponse(w, r, fmt.Errorf("validation error: %w", err))
		return
	}

	from := orb.Point{req.StartX * percentToPlane, req.StartY * percentToPlane}
	to := orb.Point{req.EndX * percentToPlane, req.EndY * percentToPlane}
	res, err := s.router.Route(r.Context(), from, to)
	if err != nil {
		s.routeErrorResponse(w, r, err)
		return
	}

	path := make([][2]float64, 0, len(res.Vertices))
	for _, v := range res.Vertices {
		path = append(path, [2]float64{v.Node.Lon, v.Node.Lat})
	}
	proj := s.router.Graph().Projection()
	resp := routeResponse{
		Found:          res.Found,
		Distance:       res.Distance,
		MercatorMeters: s.router.MercatorMeters(res),
		GeodesicMeters: res.GeodesicMeters(),
		Expanded:       res.Expanded,
		Polyline:       render.EncodePolyline(res),
		Path:           path,
		From:           proj.Unproject(from),
		To:             proj.Unproject(to),
	}
	s.writeJSON(w, r, http.StatusOK, envelope{"data": resp})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fc := render.NetworkCollection(s.router.Graph())
	body, err := fc.MarshalJSON()
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.writeJSON(w, r, http.StatusOK, s.runtimeMetrics())
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, envelope{"error": message})
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	s.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (s *Server) routeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routing.ErrEmptyGraph):
		s.errorResponse(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, routing.ErrInvalidCoordinate):
		s.badRequestResponse(w, r, err)
	case errors.Is(err, context.DeadlineExceeded):
		s.errorResponse(w, r, http.StatusGatewayTimeout, "route search timed out")
	default:
		s.serverErrorResponse(w, r, err)
	}
}
