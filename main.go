package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/antigravity/transitcore/internal/config"
	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/graph"
	"github.com/antigravity/transitcore/internal/handler"
	"github.com/antigravity/transitcore/internal/query"
	"github.com/antigravity/transitcore/internal/repository"
	"github.com/antigravity/transitcore/internal/spatial"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal("unable to parse database DSN", zap.Error(err))
	}
	poolConfig.MaxConns = cfg.Postgres.MaxConns
	poolConfig.MinConns = cfg.Postgres.MinConns

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Fatal("unable to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}
	logger.Info("connected to storage")

	// Load the network once, at startup. Persistent storage access
	// past this point is not part of the hot path.
	loader := repository.NewLoader(pool, logger)
	network, err := loader.Load(context.Background())
	if err != nil {
		logger.Fatal("failed to load network", zap.Error(err))
	}

	projector := geo.DefaultProjector()

	g, err := graph.Build(network.Lines, network.Routes, network.Points, network.Steps, projector)
	if err != nil {
		logger.Fatal("failed to build transit graph", zap.Error(err))
	}

	index := spatial.Build(network.Points, projector)

	coordinator := query.New(g, index, projector, logger)

	searchOpts := query.Options{
		WalkRadiusM:     cfg.Search.WalkRadiusM,
		SwitchCostM:     cfg.Search.SwitchCostM,
		MaxAlternatives: cfg.Search.MaxAlternatives,
		MaxPops:         cfg.Search.MaxPops,
	}
	transportHandler := handler.NewTransportHandler(g, coordinator, logger, searchOpts, cfg.Search.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Partial-Result"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)
	r.Use(zapRequestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"transitcore"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"error","db":"disconnected"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","db":"connected"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/lines", transportHandler.GetAllLines)
		r.Get("/lines/{id}", transportHandler.GetLineDetails)
		r.Get("/lines/{id}/routes/{routeId}/path", transportHandler.GetRoutePath)
		r.Get("/routes/near", transportHandler.GetRoutesNear)
		r.Get("/points", transportHandler.GetPoints)
		r.Get("/points/{id}", transportHandler.GetPointDetails)
		r.Get("/route", transportHandler.GetRoute)
	})

	addr := cfg.Server.ServerAddr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("server starting", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// zapRequestLogger is a chi middleware logging each request's method,
// path and duration via zap, structured rather than a plain stdlib
// log writer.
func zapRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}
