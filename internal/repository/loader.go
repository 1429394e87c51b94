// Package repository is the storage boundary: it loads the full Line,
// Point, Route and Step tables into memory once at startup via pgx.
// Persistent storage itself is out of scope here — this package only
// needs to hand the four entity lists to internal/graph with
// referential integrity; how they got into Postgres is someone else's
// problem.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/antigravity/transitcore/internal/models"
)

// Loader reads the network tables from a pgx connection pool.
type Loader struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLoader builds a Loader. logger may be nil, in which case a no-op
// logger is used.
func NewLoader(db *pgxpool.Pool, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{db: db, logger: logger}
}

// Network is the full set of entities internal/graph.Build needs.
type Network struct {
	Lines  []models.Line
	Points []models.Point
	Routes []models.Route
	Steps  []models.Step
}

// Load runs a single bulk scan of the lines, points, routes and steps
// tables: query, scan into a typed slice, log the row count — no
// trips, no timetables, since this network has no time-of-day
// scheduling.
func (l *Loader) Load(ctx context.Context) (*Network, error) {
	start := time.Now()
	net := &Network{}

	lineRows, err := l.db.Query(ctx, `SELECT id, name, COALESCE(color, '#000000') FROM lines`)
	if err != nil {
		return nil, fmt.Errorf("repository: query lines: %w", err)
	}
	for lineRows.Next() {
		var ln models.Line
		if err := lineRows.Scan(&ln.ID, &ln.Name, &ln.Color); err != nil {
			lineRows.Close()
			return nil, fmt.Errorf("repository: scan line: %w", err)
		}
		net.Lines = append(net.Lines, ln)
	}
	lineRows.Close()
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate lines: %w", err)
	}

	pointRows, err := l.db.Query(ctx, `SELECT id, ST_X(location::geometry), ST_Y(location::geometry) FROM points`)
	if err != nil {
		return nil, fmt.Errorf("repository: query points: %w", err)
	}
	for pointRows.Next() {
		var p models.Point
		if err := pointRows.Scan(&p.ID, &p.Lon, &p.Lat); err != nil {
			pointRows.Close()
			return nil, fmt.Errorf("repository: scan point: %w", err)
		}
		net.Points = append(net.Points, p)
	}
	pointRows.Close()
	if err := pointRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate points: %w", err)
	}

	routeRows, err := l.db.Query(ctx, `SELECT id, line_id, is_return, distance, time, first_step FROM routes`)
	if err != nil {
		return nil, fmt.Errorf("repository: query routes: %w", err)
	}
	for routeRows.Next() {
		var r models.Route
		if err := routeRows.Scan(&r.ID, &r.LineID, &r.IsReturn, &r.Distance, &r.Time, &r.FirstStep); err != nil {
			routeRows.Close()
			return nil, fmt.Errorf("repository: scan route: %w", err)
		}
		net.Routes = append(net.Routes, r)
	}
	routeRows.Close()
	if err := routeRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate routes: %w", err)
	}

	stepRows, err := l.db.Query(ctx, `SELECT id, route_id, point_id, COALESCE(next_id, 0) FROM steps`)
	if err != nil {
		return nil, fmt.Errorf("repository: query steps: %w", err)
	}
	for stepRows.Next() {
		var s models.Step
		if err := stepRows.Scan(&s.ID, &s.RouteID, &s.PointID, &s.NextID); err != nil {
			stepRows.Close()
			return nil, fmt.Errorf("repository: scan step: %w", err)
		}
		net.Steps = append(net.Steps, s)
	}
	stepRows.Close()
	if err := stepRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate steps: %w", err)
	}

	l.logger.Info("network loaded",
		zap.Int("lines", len(net.Lines)),
		zap.Int("points", len(net.Points)),
		zap.Int("routes", len(net.Routes)),
		zap.Int("steps", len(net.Steps)),
		zap.Duration("elapsed", time.Since(start)))

	return net, nil
}
