package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/itinerary"
	"github.com/antigravity/transitcore/internal/models"
	"github.com/antigravity/transitcore/internal/query"
)

func TestRenderRouteWalksTheFullStepChain(t *testing.T) {
	origin := models.Point{ID: 1, Lon: -70.66, Lat: -33.45}
	dest := models.Point{ID: 2, Lon: -70.65, Lat: -33.45}

	lines := []models.Line{{ID: 1, Name: "Line A", Color: "#ff0000"}}
	points := []models.Point{origin, dest}
	routes := []models.Route{{ID: 10, LineID: 1, FirstStep: 1}}
	steps := []models.Step{
		{ID: 1, RouteID: 10, PointID: origin.ID, NextID: 2},
		{ID: 2, RouteID: 10, PointID: dest.ID},
	}
	g, err := graph.Build(lines, routes, points, steps, geo.DefaultProjector())
	require.NoError(t, err)

	path := query.RenderRoute(g, 10)
	require.Len(t, path, 2)
	assert.Equal(t, origin.ID, path[0].ID)
	assert.Equal(t, dest.ID, path[1].ID)
}

func TestRenderRouteOnUnknownRouteReturnsNil(t *testing.T) {
	coord, _, _ := buildCoordinator(t)
	g := coord.Graph
	assert.Nil(t, query.RenderRoute(g, 999))
}

func TestRoutesNearFindsRouteWithinRadiusOnly(t *testing.T) {
	coord, origin, dest := buildCoordinator(t)
	g := coord.Graph

	near := query.RoutesNear(g, coord.Projector, g.RouteIDs(), itinerary.LonLat{Lon: origin.Lon, Lat: origin.Lat}, 100.0)
	assert.Equal(t, []int64{10}, near)

	far := query.RoutesNear(g, coord.Projector, g.RouteIDs(), itinerary.LonLat{Lon: origin.Lon + 5.0, Lat: origin.Lat}, 100.0)
	assert.Empty(t, far)
}
