package query

import (
	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/itinerary"
)

// RenderRoute returns the full ordered Point chain of a single Route,
// walking its Step.NextID links from Route.FirstStep — a cheap,
// already-built read over the graph.
func RenderRoute(g *graph.Graph, routeID int64) []itinerary.PointView {
	route, ok := g.RouteByID(routeID)
	if !ok {
		return nil
	}

	var out []itinerary.PointView
	stepID := route.FirstStep
	for {
		point, ok := g.PointOf(stepID)
		if !ok {
			break
		}
		out = append(out, itinerary.PointView{ID: point.ID, Lon: point.Lon, Lat: point.Lat})
		next, ok := g.Next(stepID)
		if !ok {
			break
		}
		stepID = next
	}
	return out
}

// RoutesNear lists every Route id, among routeIDs, passing within
// radiusM of p.
func RoutesNear(g *graph.Graph, proj *geo.Projector, routeIDs []int64, p itinerary.LonLat, radiusM float64) []int64 {
	target := proj.Project(p.Lon, p.Lat)
	var out []int64
	for _, routeID := range routeIDs {
		for _, pt := range RenderRoute(g, routeID) {
			projected := proj.Project(pt.Lon, pt.Lat)
			if geo.Distance(target, projected) <= radiusM {
				out = append(out, routeID)
				break
			}
		}
	}
	return out
}
