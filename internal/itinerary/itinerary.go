// Package itinerary groups a flat, accepted Step sequence into
// route-contiguous segments and prepends/appends the walking legs from
// the geographic origin/destination to the network's entry/exit Points.
package itinerary

import (
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/models"
	"github.com/antigravity/transitcore/internal/search"
)

// Sentinel identity reserved for walking segments. No real Route/Line
// loaded by internal/repository is ever assigned ID 0, so the core
// cannot confuse a walking segment with a real one during grouping.
const (
	WalkingRouteID  = 0
	WalkingLineName = "WALK"
	WalkingColor    = "#000000"
)

// PointView is the wire-shape of a Point inside a segment path.
type PointView struct {
	ID  int64   `json:"id,omitempty"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// RouteView is the wire-shape of a Route inside a segment; walking
// segments use the sentinel values above instead of a real Route.
type RouteView struct {
	ID       int64  `json:"id"`
	LineName string `json:"line_name"`
	Color    string `json:"color"`
}

// IsWalking reports whether this RouteView is the walking sentinel.
func (r RouteView) IsWalking() bool {
	return r.ID == WalkingRouteID
}

// Segment is one contiguous run of Steps on a single Route, or a
// synthetic walking leg.
type Segment struct {
	Route RouteView   `json:"route"`
	Path  []PointView `json:"path"`
}

// Itinerary is one complete K-best result: total distance plus the
// walking -> ride* -> walking segment list.
type Itinerary struct {
	TotalDistanceM float64   `json:"total_distance_m"`
	Segments       []Segment `json:"segments"`
}

// LonLat is a geographic point in WGS84 degrees.
type LonLat struct {
	Lon float64
	Lat float64
}

func walkingRoute() RouteView {
	return RouteView{ID: WalkingRouteID, LineName: WalkingLineName, Color: WalkingColor}
}

// Build turns one search.Result into a full Itinerary: a leading
// walking segment from origin to the entry Step's Point, one segment
// per contiguous same-route run of the path, and a trailing walking
// segment from the exit Step's Point to destination.
func Build(g *graph.Graph, result search.Result, origin, destination LonLat) Itinerary {
	it := Itinerary{TotalDistanceM: result.Distance}

	if len(result.StepIDs) == 0 {
		it.Segments = []Segment{
			{Route: walkingRoute(), Path: []PointView{pointView(origin), pointView(destination)}},
		}
		return it
	}

	firstPoint, _ := g.PointOf(result.StepIDs[0])
	lastPoint, _ := g.PointOf(result.StepIDs[len(result.StepIDs)-1])

	segments := make([]Segment, 0, len(result.StepIDs)+2)
	segments = append(segments, Segment{
		Route: walkingRoute(),
		Path:  []PointView{pointView(origin), toPointView(firstPoint)},
	})

	var currentRouteID int64 = -1
	var current Segment
	for _, stepID := range result.StepIDs {
		route, _ := g.RouteOf(stepID)
		point, _ := g.PointOf(stepID)

		if currentRouteID != route.ID {
			if currentRouteID != -1 {
				segments = append(segments, current)
			}
			currentRouteID = route.ID
			current = Segment{Route: routeView(g, route), Path: nil}
		}
		current.Path = append(current.Path, toPointView(point))
	}
	segments = append(segments, current)

	segments = append(segments, Segment{
		Route: walkingRoute(),
		Path:  []PointView{toPointView(lastPoint), pointView(destination)},
	})

	it.Segments = segments
	return it
}

func routeView(g *graph.Graph, r models.Route) RouteView {
	line, _ := g.LineOf(r.ID)
	return RouteView{ID: r.ID, LineName: line.Name, Color: line.Color}
}

func pointView(p LonLat) PointView {
	return PointView{Lon: p.Lon, Lat: p.Lat}
}

func toPointView(p models.Point) PointView {
	return PointView{ID: p.ID, Lon: p.Lon, Lat: p.Lat}
}
