// Package spatial implements a static 2-D nearest-neighbor index over a
// transit network's Points. It is built once from a read-only Point
// list and supports unlimited concurrent readers thereafter — there is
// no mutation method, so no lock is needed on the hot path.
package spatial

import (
	"math"
	"sort"

	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/models"
)

// node is one element of the k-d tree: a projected point plus its
// original Point ID and the index of its left/right children (-1 when
// absent). Stored as a flat slice rather than pointers so Build
// allocates once and the tree is fully read-only afterwards.
type node struct {
	x, y        float64
	pointID     int64
	left, right int
}

// Index is a static balanced k-d tree over projected Point coordinates.
// Safe for unlimited concurrent readers; construction is the only
// mutating operation and happens once, in Build.
type Index struct {
	nodes []node
	root  int
}

// entry is the working copy used only during construction.
type entry struct {
	x, y    float64
	pointID int64
}

// Build projects every Point via proj and constructs a balanced k-d
// tree over the result. An empty points slice yields an empty,
// always-miss Index rather than an error — a degenerate, not fatal,
// condition.
func Build(points []models.Point, proj *geo.Projector) *Index {
	projected := proj.ProjectBatch(points)
	entries := make([]entry, len(points))
	for i, p := range points {
		entries[i] = entry{x: projected[i].X, y: projected[i].Y, pointID: p.ID}
	}

	ix := &Index{nodes: make([]node, 0, len(entries))}
	ix.root = ix.build(entries, 0)
	return ix
}

// build recursively partitions entries on alternating axes (depth % 2)
// and appends the resulting node to ix.nodes, returning its index, or
// -1 for an empty slice.
func (ix *Index) build(entries []entry, depth int) int {
	if len(entries) == 0 {
		return -1
	}

	axis := depth % 2
	sort.Slice(entries, func(i, j int) bool {
		if axis == 0 {
			return entries[i].x < entries[j].x
		}
		return entries[i].y < entries[j].y
	})

	mid := len(entries) / 2
	n := node{x: entries[mid].x, y: entries[mid].y, pointID: entries[mid].pointID}

	idx := len(ix.nodes)
	ix.nodes = append(ix.nodes, n)

	left := ix.build(entries[:mid], depth+1)
	right := ix.build(entries[mid+1:], depth+1)
	ix.nodes[idx].left = left
	ix.nodes[idx].right = right

	return idx
}

// Nearest returns the single closest indexed Point to p under projected
// Euclidean distance. ok is false only when the index is empty.
func (ix *Index) Nearest(p geo.Projected) (pointID int64, ok bool) {
	if ix.root == -1 {
		return 0, false
	}
	best := -1
	bestDist := math.Inf(1)
	ix.nearest(ix.root, p, 0, &best, &bestDist)
	return ix.nodes[best].pointID, true
}

func (ix *Index) nearest(idx int, p geo.Projected, depth int, best *int, bestDist *float64) {
	if idx == -1 {
		return
	}
	n := &ix.nodes[idx]

	d := math.Hypot(n.x-p.X, n.y-p.Y)
	if d < *bestDist {
		*bestDist = d
		*best = idx
	}

	axis := depth % 2
	var diff float64
	var near, far int
	if axis == 0 {
		diff = p.X - n.x
	} else {
		diff = p.Y - n.y
	}
	if diff < 0 {
		near, far = n.left, n.right
	} else {
		near, far = n.right, n.left
	}

	ix.nearest(near, p, depth+1, best, bestDist)
	// Only descend into the far subtree if it could contain a closer
	// point than the best found so far — the splitting plane is at
	// least |diff| away from p along this axis.
	if math.Abs(diff) < *bestDist {
		ix.nearest(far, p, depth+1, best, bestDist)
	}
}

// Within returns every indexed Point id whose projected distance from p
// is <= radiusMeters. Order is unspecified. Empty when the index is
// empty or nothing falls within radius.
func (ix *Index) Within(p geo.Projected, radiusMeters float64) []int64 {
	var out []int64
	ix.within(ix.root, p, radiusMeters, 0, &out)
	return out
}

func (ix *Index) within(idx int, p geo.Projected, radius float64, depth int, out *[]int64) {
	if idx == -1 {
		return
	}
	n := &ix.nodes[idx]

	if math.Hypot(n.x-p.X, n.y-p.Y) <= radius {
		*out = append(*out, n.pointID)
	}

	axis := depth % 2
	var diff float64
	if axis == 0 {
		diff = p.X - n.x
	} else {
		diff = p.Y - n.y
	}

	if diff <= 0 {
		ix.within(n.left, p, radius, depth+1, out)
		if -diff <= radius {
			ix.within(n.right, p, radius, depth+1, out)
		}
	} else {
		ix.within(n.right, p, radius, depth+1, out)
		if diff <= radius {
			ix.within(n.left, p, radius, depth+1, out)
		}
	}
}
