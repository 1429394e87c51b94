package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/models"
	"github.com/antigravity/transitcore/internal/spatial"
)

func gridPoints() []models.Point {
	// A small 3x3 grid, 0.01 degrees apart (roughly 0.9km east-west and
	// 1.1km north-south at this latitude), ids 1..9 in row-major order.
	var pts []models.Point
	id := int64(1)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			pts = append(pts, models.Point{
				ID:  id,
				Lon: -70.65 + float64(col)*0.01,
				Lat: -33.45 + float64(row)*0.01,
			})
			id++
		}
	}
	return pts
}

func TestNearestReturnsClosestPoint(t *testing.T) {
	proj := geo.DefaultProjector()
	ix := spatial.Build(gridPoints(), proj)

	// Query exactly on top of point id 5 (the grid center).
	center := gridPoints()[4]
	got, ok := ix.Nearest(proj.Project(center.Lon, center.Lat))
	require.True(t, ok)
	assert.Equal(t, center.ID, got)
}

func TestNearestOnEmptyIndexMisses(t *testing.T) {
	proj := geo.DefaultProjector()
	ix := spatial.Build(nil, proj)

	_, ok := ix.Nearest(proj.Project(-70.65, -33.45))
	assert.False(t, ok)
}

func TestWithinFindsEveryPointInsideRadiusAndNoneOutside(t *testing.T) {
	proj := geo.DefaultProjector()
	pts := gridPoints()
	ix := spatial.Build(pts, proj)

	center := pts[4]
	p := proj.Project(center.Lon, center.Lat)

	// A radius smaller than the grid spacing should find only the
	// center point.
	near := ix.Within(p, 50.0)
	assert.ElementsMatch(t, []int64{center.ID}, near)

	// A radius larger than the full grid diagonal should find all nine.
	all := ix.Within(p, 5000.0)
	assert.Len(t, all, len(pts))
}

func TestWithinOnEmptyIndexReturnsEmpty(t *testing.T) {
	proj := geo.DefaultProjector()
	ix := spatial.Build(nil, proj)

	assert.Empty(t, ix.Within(proj.Project(-70.65, -33.45), 1000.0))
}
