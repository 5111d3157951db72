// Package server exposes the footprint calculator, scenario simulator and
// recommendation ranker over HTTP, with a gRPC health service alongside.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/config"
	"github.com/rshade/carbonlens/internal/recommend"
	"github.com/rshade/carbonlens/internal/scenario"
	"github.com/rshade/carbonlens/internal/store"
)

// HealthServiceName is the service reported by the gRPC health server.
const HealthServiceName = "carbonlens.v1.CarbonLens"

const maxRequestBody = 1 << 20

// Server wires the core engines, the store and the HTTP surface together.
type Server struct {
	calc     *carbon.Calculator
	sim      *scenario.Simulator
	ranker   *recommend.Ranker
	store    store.Store
	logger   zerolog.Logger
	metrics  *Metrics
	cors     config.CORSConfig
	health   *health.Server
	draining atomic.Bool
}

// Option customises a Server.
type Option func(*Server)

// WithMetrics uses m instead of a fresh metrics registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORS sets the cross-origin policy.
func WithCORS(cfg config.CORSConfig) Option {
	return func(s *Server) { s.cors = cfg }
}

// New builds a Server around the given calculator and store.
func New(calc *carbon.Calculator, st store.Store, logger zerolog.Logger, opts ...Option) *Server {
	sim := scenario.NewSimulator(calc)
	s := &Server{
		calc:   calc,
		sim:    sim,
		ranker: recommend.NewRanker(sim, logger),
		store:  st,
		logger: logger.With().Str("component", "server").Logger(),
		health: health.NewServer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.health.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cors))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, req, "route", newAPIError(http.StatusNotFound, codeRouteNotFound,
			fmt.Sprintf("no route for %s", req.URL.Path), nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, req, "route", newAPIError(http.StatusMethodNotAllowed, codeMethodNotAllowed,
			fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), nil))
	})

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Post("/calculate", s.handleCalculate)
	r.Post("/simulate", s.handleSimulate)
	r.Post("/recommendations", s.handleRecommendations)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Post("/footprints", s.handleSaveFootprint)
			r.Get("/footprints", s.handleListFootprints)
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/recommendations", s.handleUserRecommendations)
		})
	})

	return r
}

// GRPCServer returns a gRPC server exposing only the health service.
func (s *Server) GRPCServer() *grpc.Server {
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, s.health)
	return gs
}

// Run listens on the configured addresses and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	httpLis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}

	var grpcLis net.Listener
	if cfg.GRPCHealthAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listening on %s: %w", cfg.GRPCHealthAddr, err)
		}
	}

	return s.Serve(ctx, cfg, httpLis, grpcLis)
}

// Serve serves HTTP on httpLis and, when grpcLis is non-nil, the gRPC health
// service. Cancelling ctx marks the server not ready and shuts both down
// within cfg.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, cfg config.ServerConfig, httpLis, grpcLis net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	var grpcSrv *grpc.Server
	if grpcLis != nil {
		grpcSrv = s.GRPCServer()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", httpLis.Addr().String()).Msg("HTTP server listening")
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error {
			s.logger.Info().Str("addr", grpcLis.Addr().String()).Msg("gRPC health server listening")
			if err := grpcSrv.Serve(grpcLis); err != nil {
				return fmt.Errorf("grpc health server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.draining.Store(true)
		s.health.Shutdown()
		s.logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()

		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("shutdown failed")
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func shutdownTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.ShutdownTimeout > 0 {
		return cfg.ShutdownTimeout
	}
	return 15 * time.Second
}
