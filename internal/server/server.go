package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/app/gameday"
	"github.com/preston-bernstein/roster-stats-service/internal/app/roster"
	"github.com/preston-bernstein/roster-stats-service/internal/config"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	httpserver "github.com/preston-bernstein/roster-stats-service/internal/http"
	"github.com/preston-bernstein/roster-stats-service/internal/http/handlers"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	registry      *teams.Registry
	cache         *store.RosterCache
	rosters       *roster.Service
	httpServer    httpServer
	metricsServer httpServer
	warmer        Warmer
	metricsStop   func(context.Context) error
}

// New constructs a server with providers selected by cfg.Provider.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	comps := newProviderFactory(logger, recorder, nil).build(cfg)
	srv := newServerWithComponents(cfg, logger, recorder, clock.New(), comps)
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	return srv
}

func newServerWithComponents(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, clk clock.Clock, comps components) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	registry := teams.DefaultRegistry()
	cache := store.NewRosterCache(cfg.Roster.TTL, clk)
	aggregator := roster.NewAggregator(comps.sources, clk, logger, recorder)
	rosters := roster.NewService(registry, aggregator, cache, logger, recorder)

	warmer := newWarmer(cfg.Warmer, rosters, cache, logger, recorder)

	deps := handlers.Deps{
		Rosters: rosters,
		Teams:   registry,
	}
	if comps.schedule != nil {
		deps.Gameday = gameday.NewService(registry, comps.schedule, logger)
	}
	if comps.summaries != nil {
		deps.Summaries = comps.summaries
	}
	if comps.deepDives != nil {
		deps.DeepDives = comps.deepDives
	}
	if warmer != nil {
		deps.Status = warmer.Status
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    recorder,
		registry:   registry,
		cache:      cache,
		rosters:    rosters,
		httpServer: buildHTTPServer(cfg, handlers.NewHandler(deps, logger), logger, recorder),
		warmer:     warmer,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, warmer Warmer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		warmer:     warmer,
	}
}

func buildHTTPServer(cfg config.Config, handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	return newNetHTTPServer(":"+cfg.Port, httpserver.NewRouter(handler, logger, recorder))
}

// Run starts the warmer and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.warmer != nil {
		s.warmer.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", logging.FieldError, err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", logging.FieldError, err)
		}
	}

	if s.warmer != nil {
		if err := s.warmer.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop roster warmer", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", logging.FieldError, err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newNetHTTPServer(":"+recCfg.Port, handler)
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", logging.FieldError, err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
