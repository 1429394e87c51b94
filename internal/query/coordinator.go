// Package query implements the query coordinator: it accepts a
// geographic origin/destination pair, expands each into a candidate
// stop set via the spatial index, invokes the search core, and
// post-processes the result into itineraries with walking legs.
package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/itinerary"
	"github.com/antigravity/transitcore/internal/search"
	"github.com/antigravity/transitcore/internal/spatial"
)

// Options configures one KBest call; zero values fall back to the
// package defaults in DefaultOptions.
type Options struct {
	WalkRadiusM     float64
	SwitchCostM     float64
	MaxAlternatives int
	Deadline        time.Time
	MaxPops         int
}

// DefaultOptions returns the documented service-wide defaults: 400m
// walk radius, 200m switch cost, K=3.
func DefaultOptions() Options {
	return Options{
		WalkRadiusM:     400.0,
		SwitchCostM:     200.0,
		MaxAlternatives: 3,
	}
}

// Coordinator wires the Graph, spatial Index and Projector together
// behind the single KBest entry point. All three fields are read-only
// shared state — a Coordinator has no mutable fields of its own and is
// safe to call concurrently from any number of goroutines.
type Coordinator struct {
	Graph     *graph.Graph
	Index     *spatial.Index
	Projector *geo.Projector
	Logger    *zap.Logger
}

// New builds a Coordinator. logger may be nil, in which case a no-op
// logger is used.
func New(g *graph.Graph, ix *spatial.Index, proj *geo.Projector, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{Graph: g, Index: ix, Projector: proj, Logger: logger}
}

// KBest runs the full routing pipeline end to end: candidate stop
// expansion (with nearest-stop fallback), walking-cost computation,
// the search core invocation, and itinerary post-processing. The
// second return
// value reports whether the deadline or a pop cap cut the search short
// of opts.MaxAlternatives — callers surface this to clients rather than
// letting a truncated result pass as a complete one.
func (c *Coordinator) KBest(ctx context.Context, origin, destination itinerary.LonLat, opts Options) ([]itinerary.Itinerary, bool) {
	opts = withDefaults(opts)

	originProjected := c.Projector.Project(origin.Lon, origin.Lat)
	destProjected := c.Projector.Project(destination.Lon, destination.Lat)

	originStops := c.candidateStops(originProjected, opts.WalkRadiusM)
	destStops := c.candidateStops(destProjected, opts.WalkRadiusM)

	c.Logger.Debug("candidate stops resolved",
		zap.Int("origin_candidates", len(originStops)),
		zap.Int("destination_candidates", len(destStops)))

	if len(originStops) == 0 || len(destStops) == 0 {
		return nil, false
	}

	startCosts := make(map[int64]float64, len(originStops))
	var startSteps []int64
	for _, pointID := range originStops {
		point, _ := c.Graph.Projected(pointID)
		startCosts[pointID] = geo.Distance(originProjected, point)
		startSteps = append(startSteps, c.Graph.StepsAtPoint(pointID)...)
	}

	endCosts := make(map[int64]float64, len(destStops))
	endPointSet := make(map[int64]struct{}, len(destStops))
	for _, pointID := range destStops {
		point, _ := c.Graph.Projected(pointID)
		endCosts[pointID] = geo.Distance(destProjected, point)
		endPointSet[pointID] = struct{}{}
	}

	searchOpts := search.Options{
		SwitchCostM:       opts.SwitchCostM,
		EdgePenalty:       100000.0,
		PointReusePenalty: 100000.0,
		MaxAlternatives:   opts.MaxAlternatives,
		Deadline:          deadlineFromContext(ctx, opts.Deadline),
		MaxPops:           opts.MaxPops,
	}

	results, partial := search.KBest(c.Graph, startSteps, startCosts, endPointSet, endCosts, searchOpts)

	itineraries := make([]itinerary.Itinerary, 0, len(results))
	for _, r := range results {
		itineraries = append(itineraries, itinerary.Build(c.Graph, r, origin, destination))
	}
	return itineraries, partial
}

// candidateStops returns every indexed Point within radiusM of p,
// falling back to the single nearest Point when none fall within
// radius.
func (c *Coordinator) candidateStops(p geo.Projected, radiusM float64) []int64 {
	stops := c.Index.Within(p, radiusM)
	if len(stops) > 0 {
		return stops
	}
	if nearest, ok := c.Index.Nearest(p); ok {
		return []int64{nearest}
	}
	return nil
}

func withDefaults(opts Options) Options {
	d := DefaultOptions()
	if opts.WalkRadiusM > 0 {
		d.WalkRadiusM = opts.WalkRadiusM
	}
	if opts.SwitchCostM > 0 {
		d.SwitchCostM = opts.SwitchCostM
	}
	if opts.MaxAlternatives > 0 {
		d.MaxAlternatives = opts.MaxAlternatives
	}
	d.Deadline = opts.Deadline
	d.MaxPops = opts.MaxPops
	return d
}

// deadlineFromContext folds a context deadline (if any) and an
// explicit opts.Deadline into the single, earlier deadline the search
// core checks once per pop.
func deadlineFromContext(ctx context.Context, explicit time.Time) time.Time {
	ctxDeadline, ok := ctx.Deadline()
	if !ok {
		return explicit
	}
	if explicit.IsZero() || ctxDeadline.Before(explicit) {
		return ctxDeadline
	}
	return explicit
}
