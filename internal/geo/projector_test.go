package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/geo"
)

func TestDefaultProjectorIsZone20South(t *testing.T) {
	p := geo.DefaultProjector()
	q := geo.NewProjector(20, true)

	// Same zone/hemisphere must project identical input to identical output.
	a := p.Project(-70.6693, -33.4489) // Santiago, for reference only
	b := q.Project(-70.6693, -33.4489)
	assert.Equal(t, a, b)
}

func TestProjectIsFiniteAndMonotonicEastward(t *testing.T) {
	p := geo.DefaultProjector()

	west := p.Project(-70.70, -33.45)
	east := p.Project(-70.60, -33.45)

	assert.False(t, math.IsNaN(west.X) || math.IsInf(west.X, 0))
	assert.False(t, math.IsNaN(west.Y) || math.IsInf(west.Y, 0))
	// Moving east (increasing longitude) must increase the projected X.
	assert.Greater(t, east.X, west.X)
}

func TestProjectSouthHemisphereAddsFalseNorthing(t *testing.T) {
	north := geo.NewProjector(20, false)
	south := geo.NewProjector(20, true)

	a := north.Project(-70.65, -33.45)
	b := south.Project(-70.65, -33.45)

	// The only difference between hemispheres is the 10,000,000m false
	// northing added south of the equator; X and the unshifted Y agree.
	assert.InDelta(t, a.X, b.X, 1e-6)
	assert.InDelta(t, a.Y+10000000.0, b.Y, 1e-6)
}

func TestDistanceIsSymmetricAndZeroForSamePoint(t *testing.T) {
	p := geo.DefaultProjector()
	a := p.Project(-70.65, -33.45)
	b := p.Project(-70.64, -33.44)

	assert.Zero(t, geo.Distance(a, a))
	assert.Equal(t, geo.Distance(a, b), geo.Distance(b, a))
	assert.Greater(t, geo.Distance(a, b), 0.0)
}

func TestDistanceRoughlyMatchesKnownSeparation(t *testing.T) {
	p := geo.DefaultProjector()
	// Two points one arc-minute of latitude apart sit roughly 1852m
	// apart (a nautical mile); the projection should stay close to that.
	a := p.Project(-70.65, -33.45)
	b := p.Project(-70.65, -33.45-1.0/60.0)

	d := geo.Distance(a, b)
	assert.InDelta(t, 1852.0, d, 50.0)
}
