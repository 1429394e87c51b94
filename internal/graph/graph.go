// Package graph builds the in-memory transit graph — Steps as nodes,
// intra-route and transfer edges implied by the Step/Route/Point
// indices — from a fully-loaded set of entities. It performs no further
// storage access once built and is never mutated afterwards, so it is
// safe to share across unlimited concurrent searches.
package graph

import (
	"fmt"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/models"
)

// Graph is the read-only transit graph: Steps joined with their Point
// and Route, plus the indices the search core needs to enumerate edges
// without touching storage again.
type Graph struct {
	steps        map[int64]models.Step
	routes       map[int64]models.Route
	lines        map[int64]models.Line
	points       map[int64]models.Point
	projected    map[int64]geo.Projected // PointID -> cached projection
	stepsAtPoint map[int64][]int64       // PointID -> []StepID
}

// Build joins the full Step table with its Point and Route references
// and returns a traversable Graph. It aborts construction — returning a
// non-nil error — the instant a Step, Route or Line reference is
// dangling; this is meant to be a fatal initialization error, not a
// per-request condition.
func Build(lines []models.Line, routes []models.Route, points []models.Point, steps []models.Step, proj *geo.Projector) (*Graph, error) {
	g := &Graph{
		steps:        make(map[int64]models.Step, len(steps)),
		routes:       make(map[int64]models.Route, len(routes)),
		lines:        make(map[int64]models.Line, len(lines)),
		points:       make(map[int64]models.Point, len(points)),
		projected:    make(map[int64]geo.Projected, len(points)),
		stepsAtPoint: make(map[int64][]int64, len(points)),
	}

	for _, l := range lines {
		g.lines[l.ID] = l
	}
	projected := proj.ProjectBatch(points)
	for i, p := range points {
		g.points[p.ID] = p
		g.projected[p.ID] = projected[i]
	}
	for _, r := range routes {
		g.routes[r.ID] = r
	}
	for _, s := range steps {
		g.steps[s.ID] = s
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("graph: empty step table")
	}

	for _, s := range steps {
		if _, ok := g.points[s.PointID]; !ok {
			return nil, fmt.Errorf("graph: step %d references missing point %d", s.ID, s.PointID)
		}
		if _, ok := g.routes[s.RouteID]; !ok {
			return nil, fmt.Errorf("graph: step %d references missing route %d", s.ID, s.RouteID)
		}
		if s.NextID != 0 {
			next, ok := g.steps[s.NextID]
			if !ok {
				return nil, fmt.Errorf("graph: step %d references missing next step %d", s.ID, s.NextID)
			}
			if next.RouteID != s.RouteID {
				return nil, fmt.Errorf("graph: step %d and its next step %d belong to different routes", s.ID, s.NextID)
			}
		}
		g.stepsAtPoint[s.PointID] = append(g.stepsAtPoint[s.PointID], s.ID)
	}

	for _, r := range routes {
		if r.FirstStep == 0 {
			return nil, fmt.Errorf("graph: route %d has no first step", r.ID)
		}
		if _, ok := g.steps[r.FirstStep]; !ok {
			return nil, fmt.Errorf("graph: route %d references missing first step %d", r.ID, r.FirstStep)
		}
		if _, ok := g.lines[r.LineID]; !ok {
			return nil, fmt.Errorf("graph: route %d references missing line %d", r.ID, r.LineID)
		}
	}

	return g, nil
}

// Step looks up a node by id.
func (g *Graph) Step(id int64) (models.Step, bool) {
	s, ok := g.steps[id]
	return s, ok
}

// StepsAtPoint returns every Step, across all routes, stopping at
// pointID — the candidate set for transfer edges at that stop.
func (g *Graph) StepsAtPoint(pointID int64) []int64 {
	return g.stepsAtPoint[pointID]
}

// Next returns the intra-route successor of stepID, or (0, false) when
// stepID is the last Step of its Route.
func (g *Graph) Next(stepID int64) (int64, bool) {
	s, ok := g.steps[stepID]
	if !ok || s.NextID == 0 {
		return 0, false
	}
	return s.NextID, true
}

// RouteOf returns the Route a Step belongs to.
func (g *Graph) RouteOf(stepID int64) (models.Route, bool) {
	s, ok := g.steps[stepID]
	if !ok {
		return models.Route{}, false
	}
	r, ok := g.routes[s.RouteID]
	return r, ok
}

// RouteByID looks up a Route directly by its own id, for callers (the
// HTTP boundary, RenderRoute) that have a Route id rather than a Step.
func (g *Graph) RouteByID(routeID int64) (models.Route, bool) {
	r, ok := g.routes[routeID]
	return r, ok
}

// RouteIDs returns every Route id in the graph, for listing endpoints.
func (g *Graph) RouteIDs() []int64 {
	out := make([]int64, 0, len(g.routes))
	for id := range g.routes {
		out = append(out, id)
	}
	return out
}

// LineOf returns the Line a Route belongs to.
func (g *Graph) LineOf(routeID int64) (models.Line, bool) {
	r, ok := g.routes[routeID]
	if !ok {
		return models.Line{}, false
	}
	l, ok := g.lines[r.LineID]
	return l, ok
}

// LineByID looks up a Line directly by its own id.
func (g *Graph) LineByID(lineID int64) (models.Line, bool) {
	l, ok := g.lines[lineID]
	return l, ok
}

// Lines returns every Line in the graph, for listing endpoints.
func (g *Graph) Lines() []models.Line {
	out := make([]models.Line, 0, len(g.lines))
	for _, l := range g.lines {
		out = append(out, l)
	}
	return out
}

// PointByID looks up a Point directly by its own id.
func (g *Graph) PointByID(pointID int64) (models.Point, bool) {
	p, ok := g.points[pointID]
	return p, ok
}

// PointOf returns the Point a Step stops at.
func (g *Graph) PointOf(stepID int64) (models.Point, bool) {
	s, ok := g.steps[stepID]
	if !ok {
		return models.Point{}, false
	}
	p, ok := g.points[s.PointID]
	return p, ok
}

// Projected returns the cached planar projection of a Point, computed
// once at Build time rather than on every distance calculation.
func (g *Graph) Projected(pointID int64) (geo.Projected, bool) {
	p, ok := g.projected[pointID]
	return p, ok
}

// Points returns every Point in the graph, for spatial index
// construction.
func (g *Graph) Points() []models.Point {
	out := make([]models.Point, 0, len(g.points))
	for _, p := range g.points {
		out = append(out, p)
	}
	return out
}

// EdgeWeight returns the intra-route edge weight between a Step and its
// successor: the Euclidean distance between their projected Points.
func (g *Graph) EdgeWeight(fromStepID, toStepID int64) float64 {
	from, _ := g.Step(fromStepID)
	to, _ := g.Step(toStepID)
	a := g.projected[from.PointID]
	b := g.projected[to.PointID]
	return geo.Distance(a, b)
}
