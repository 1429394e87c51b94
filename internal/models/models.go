// Package models holds the plain data records loaded from storage: Line,
// Point, Route and Step. None of these types carry behavior — projection,
// graph traversal and search all live in their own packages so that a
// Point stays a Point no matter which component is looking at it.
package models

// Line is an identified public-transport line. Immutable once loaded.
type Line struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Point is a geographic location in WGS84 degrees.
type Point struct {
	ID  int64   `json:"id"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Route is an ordered chain of Steps belonging to one Line in one
// direction. FirstStep must reference a Step that exists; Distance and
// Time are aggregates precomputed by the loader, not derived here.
type Route struct {
	ID        int64   `json:"id"`
	LineID    int64   `json:"line_id"`
	IsReturn  bool    `json:"is_return"`
	Distance  float64 `json:"distance"`
	Time      float64 `json:"time"`
	FirstStep int64   `json:"first_step"`
}

// Step is a single stop visit within a Route. NextID is 0 when the Step
// is the last in its Route's chain — no loader assigns a Step the ID 0,
// so 0 is a safe "no next" sentinel.
type Step struct {
	ID      int64 `json:"id"`
	RouteID int64 `json:"route_id"`
	PointID int64 `json:"point_id"`
	NextID  int64 `json:"next_id,omitempty"`
}
