package itinerary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/itinerary"
	"github.com/antigravity/transitcore/internal/models"
	"github.com/antigravity/transitcore/internal/search"
)

func twoRouteNetwork(t *testing.T) *graph.Graph {
	t.Helper()
	lines := []models.Line{
		{ID: 1, Name: "Line A", Color: "#ff0000"},
		{ID: 2, Name: "Line B", Color: "#00ff00"},
	}
	points := []models.Point{
		{ID: 1, Lon: -70.66, Lat: -33.45},
		{ID: 2, Lon: -70.65, Lat: -33.45},
		{ID: 3, Lon: -70.65, Lat: -33.44},
	}
	routes := []models.Route{
		{ID: 10, LineID: 1, FirstStep: 1},
		{ID: 20, LineID: 2, FirstStep: 3},
	}
	steps := []models.Step{
		{ID: 1, RouteID: 10, PointID: 1, NextID: 2},
		{ID: 2, RouteID: 10, PointID: 2},
		{ID: 3, RouteID: 20, PointID: 2, NextID: 4},
		{ID: 4, RouteID: 20, PointID: 3},
	}
	g, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	require.NoError(t, err)
	return g
}

func TestBuildGroupsStepsIntoRouteContiguousSegmentsWithWalkingEnds(t *testing.T) {
	g := twoRouteNetwork(t)
	result := search.Result{StepIDs: []int64{1, 2, 3, 4}, Distance: 1234.5}
	origin := itinerary.LonLat{Lon: -70.661, Lat: -33.451}
	destination := itinerary.LonLat{Lon: -70.649, Lat: -33.439}

	it := itinerary.Build(g, result, origin, destination)

	require.Len(t, it.Segments, 4)
	assert.Equal(t, 1234.5, it.TotalDistanceM)

	assert.True(t, it.Segments[0].Route.IsWalking())
	assert.Equal(t, origin.Lon, it.Segments[0].Path[0].Lon)

	assert.False(t, it.Segments[1].Route.IsWalking())
	assert.Equal(t, int64(10), it.Segments[1].Route.ID)
	assert.Equal(t, "Line A", it.Segments[1].Route.LineName)
	assert.Len(t, it.Segments[1].Path, 2)

	assert.False(t, it.Segments[2].Route.IsWalking())
	assert.Equal(t, int64(20), it.Segments[2].Route.ID)
	assert.Equal(t, "Line B", it.Segments[2].Route.LineName)

	assert.True(t, it.Segments[3].Route.IsWalking())
	lastPath := it.Segments[3].Path
	assert.Equal(t, destination.Lon, lastPath[len(lastPath)-1].Lon)
}

func TestBuildOnEmptyResultIsAllWalking(t *testing.T) {
	g := twoRouteNetwork(t)
	origin := itinerary.LonLat{Lon: -70.661, Lat: -33.451}
	destination := itinerary.LonLat{Lon: -70.649, Lat: -33.439}

	it := itinerary.Build(g, search.Result{}, origin, destination)

	require.Len(t, it.Segments, 1)
	assert.True(t, it.Segments[0].Route.IsWalking())
}

func TestWalkingSentinelNeverCollidesWithARealRoute(t *testing.T) {
	assert.Equal(t, int64(0), itinerary.RouteView{}.ID)
	assert.True(t, itinerary.RouteView{}.IsWalking())

	real := itinerary.RouteView{ID: 10, LineName: "Line A"}
	assert.False(t, real.IsWalking())
}
