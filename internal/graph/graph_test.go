package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/models"
)

// validNetwork builds two one-direction routes on two lines that share
// point 20, so a transfer is possible there:
//
//	Route 100 (Line 1): step 1 (pt 10) -> step 2 (pt 20) -> step 3 (pt 30)
//	Route 200 (Line 2): step 4 (pt 20) -> step 5 (pt 40)
func validNetwork() ([]models.Line, []models.Route, []models.Point, []models.Step) {
	lines := []models.Line{
		{ID: 1, Name: "Line A", Color: "#ff0000"},
		{ID: 2, Name: "Line B", Color: "#00ff00"},
	}
	points := []models.Point{
		{ID: 10, Lon: -70.66, Lat: -33.45},
		{ID: 20, Lon: -70.65, Lat: -33.45},
		{ID: 30, Lon: -70.64, Lat: -33.45},
		{ID: 40, Lon: -70.65, Lat: -33.44},
	}
	routes := []models.Route{
		{ID: 100, LineID: 1, FirstStep: 1, Distance: 2000, Time: 300},
		{ID: 200, LineID: 2, FirstStep: 4, Distance: 1000, Time: 150},
	}
	steps := []models.Step{
		{ID: 1, RouteID: 100, PointID: 10, NextID: 2},
		{ID: 2, RouteID: 100, PointID: 20, NextID: 3},
		{ID: 3, RouteID: 100, PointID: 30},
		{ID: 4, RouteID: 200, PointID: 20, NextID: 5},
		{ID: 5, RouteID: 200, PointID: 40},
	}
	return lines, routes, points, steps
}

func TestBuildValidNetwork(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	g, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	require.NoError(t, err)
	require.NotNil(t, g)

	next, ok := g.Next(1)
	assert.True(t, ok)
	assert.Equal(t, int64(2), next)

	_, ok = g.Next(3)
	assert.False(t, ok, "last step of a route has no successor")

	transfers := g.StepsAtPoint(20)
	assert.ElementsMatch(t, []int64{2, 4}, transfers)

	route, ok := g.RouteOf(1)
	require.True(t, ok)
	assert.Equal(t, int64(100), route.ID)

	line, ok := g.LineOf(100)
	require.True(t, ok)
	assert.Equal(t, "Line A", line.Name)
}

func TestBuildRejectsEmptySteps(t *testing.T) {
	lines, routes, points, _ := validNetwork()
	_, err := graph.Build(lines, routes, points, nil, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestBuildRejectsDanglingPointReference(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	steps[0].PointID = 999
	_, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestBuildRejectsDanglingRouteReference(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	steps[0].RouteID = 999
	_, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestBuildRejectsDanglingNextStep(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	steps[2].NextID = 999
	_, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestBuildRejectsNextStepOnDifferentRoute(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	// Point step 3 (last of route 100) at step 4, which belongs to route 200.
	steps[2].NextID = 4
	_, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestBuildRejectsRouteWithMissingFirstStep(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	routes[0].FirstStep = 999
	_, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestBuildRejectsRouteWithDanglingLine(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	routes[0].LineID = 999
	_, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	assert.Error(t, err)
}

func TestEdgeWeightMatchesProjectedDistance(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	proj := geo.DefaultProjector()
	g, err := graph.Build(lines, routes, points, steps, proj)
	require.NoError(t, err)

	a, _ := g.Projected(10)
	b, _ := g.Projected(20)
	assert.Equal(t, geo.Distance(a, b), g.EdgeWeight(1, 2))
}

func TestRouteByIDAndLineByIDAndPointByID(t *testing.T) {
	lines, routes, points, steps := validNetwork()
	g, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	require.NoError(t, err)

	route, ok := g.RouteByID(200)
	require.True(t, ok)
	assert.Equal(t, int64(2), route.LineID)

	line, ok := g.LineByID(2)
	require.True(t, ok)
	assert.Equal(t, "Line B", line.Name)

	point, ok := g.PointByID(40)
	require.True(t, ok)
	assert.Equal(t, -33.44, point.Lat)

	_, ok = g.PointByID(999)
	assert.False(t, ok)

	assert.ElementsMatch(t, []int64{100, 200}, g.RouteIDs())
	assert.Len(t, g.Lines(), 2)
	assert.Len(t, g.Points(), 4)
}
