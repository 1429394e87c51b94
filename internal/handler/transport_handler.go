// Package handler is the HTTP boundary: chi routes, request parsing,
// JSON encoding, 4xx on malformed client input. Transport, routing and
// serialization are external collaborators, not subjects of the core's
// invariants, so nothing here does more than translate HTTP to/from the
// query.Coordinator and graph.Graph calls it wraps.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/itinerary"
	"github.com/antigravity/transitcore/internal/query"
)

// TransportHandler exposes the network's read endpoints and the K-best
// routing endpoint. Ground: teacher's internal/handler/transport_handler.go
// (handler struct shape, chi.URLParam usage).
type TransportHandler struct {
	Graph       *graph.Graph
	Coordinator *query.Coordinator
	Logger      *zap.Logger

	// SearchOpts holds the configured defaults (walk radius, switch
	// cost, K, max pops) applied to every /route request before query
	// parameters override them — see internal/config.SearchConfig.
	SearchOpts query.Options
	// RequestTimeout bounds each search call; zero disables the
	// per-request deadline.
	RequestTimeout time.Duration
}

// NewTransportHandler builds a TransportHandler. logger may be nil.
func NewTransportHandler(g *graph.Graph, coord *query.Coordinator, logger *zap.Logger, searchOpts query.Options, requestTimeout time.Duration) *TransportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransportHandler{
		Graph:          g,
		Coordinator:    coord,
		Logger:         logger,
		SearchOpts:     searchOpts,
		RequestTimeout: requestTimeout,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// GetAllLines lists every Line in the network — a read pass-through
// over the in-memory graph, not administrative CRUD.
func (h *TransportHandler) GetAllLines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Graph.Lines())
}

// GetLineDetails returns one Line plus the ids of every Route it owns.
func (h *TransportHandler) GetLineDetails(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line id")
		return
	}

	line, ok := h.Graph.LineByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "line not found")
		return
	}

	var routeIDs []int64
	for _, rid := range h.Graph.RouteIDs() {
		route, ok := h.Graph.RouteByID(rid)
		if ok && route.LineID == id {
			routeIDs = append(routeIDs, rid)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"line":   line,
		"routes": routeIDs,
	})
}

// GetRoutePath returns the full ordered Point chain of one Route,
// nested under its owning Line.
func (h *TransportHandler) GetRoutePath(w http.ResponseWriter, r *http.Request) {
	lineIDStr := chi.URLParam(r, "id")
	lineID, err := strconv.ParseInt(lineIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line id")
		return
	}

	routeIDStr := chi.URLParam(r, "routeId")
	routeID, err := strconv.ParseInt(routeIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid route id")
		return
	}

	route, ok := h.Graph.RouteByID(routeID)
	if !ok || route.LineID != lineID {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}

	path := query.RenderRoute(h.Graph, routeID)
	if path == nil {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// GetRoutesNear lists every Route passing within a radius of a point.
func (h *TransportHandler) GetRoutesNear(w http.ResponseWriter, r *http.Request) {
	lon, err1 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	lat, err2 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	radius, err3 := strconv.ParseFloat(r.URL.Query().Get("radius_m"), 64)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid point coordinates")
		return
	}
	if err3 != nil || radius <= 0 {
		radius = h.SearchOpts.WalkRadiusM
	}

	routeIDs := query.RoutesNear(h.Graph, h.Coordinator.Projector, h.Graph.RouteIDs(), itinerary.LonLat{Lon: lon, Lat: lat}, radius)
	if routeIDs == nil {
		routeIDs = []int64{}
	}
	writeJSON(w, http.StatusOK, routeIDs)
}

// GetPoints lists every Point in the network.
func (h *TransportHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Graph.Points())
}

// GetPointDetails returns one Point by id.
func (h *TransportHandler) GetPointDetails(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid point id")
		return
	}
	point, ok := h.Graph.PointByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "point not found")
		return
	}
	writeJSON(w, http.StatusOK, point)
}

// GetRoute is the core endpoint: parses origin/destination coordinates
// and K, invokes query.Coordinator.KBest, and returns the itinerary
// list. An empty list is a 200, not a 404 — "no route found" is a
// normal empty result, never an error.
func (h *TransportHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	fromLon, err1 := strconv.ParseFloat(r.URL.Query().Get("from_lon"), 64)
	fromLat, err2 := strconv.ParseFloat(r.URL.Query().Get("from_lat"), 64)
	toLon, err3 := strconv.ParseFloat(r.URL.Query().Get("to_lon"), 64)
	toLat, err4 := strconv.ParseFloat(r.URL.Query().Get("to_lat"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid origin/destination coordinates")
		return
	}

	opts := h.SearchOpts
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		if k, err := strconv.Atoi(kStr); err == nil && k > 0 {
			opts.MaxAlternatives = k
		}
	}
	if h.RequestTimeout > 0 {
		opts.Deadline = time.Now().Add(h.RequestTimeout)
	}

	origin := itinerary.LonLat{Lon: fromLon, Lat: fromLat}
	destination := itinerary.LonLat{Lon: toLon, Lat: toLat}

	itineraries, partial := h.Coordinator.KBest(r.Context(), origin, destination, opts)
	if itineraries == nil {
		itineraries = []itinerary.Itinerary{}
	}
	if partial {
		w.Header().Set("X-Partial-Result", "true")
	}

	writeJSON(w, http.StatusOK, itineraries)
}
