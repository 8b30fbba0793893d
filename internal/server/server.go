package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/internal/config"
	apperrors "github.com/agbru/combicalc/internal/errors"
	"github.com/agbru/combicalc/internal/logging"
	"github.com/agbru/combicalc/internal/service"
)

// Server represents the HTTP server for the combicalc API.
// It wraps the standard http.Server and adds application-specific
// configuration and graceful shutdown capabilities.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
	limits         service.Limits
}

// NewServer creates a new Server instance serving the given counter registry.
// It initializes the HTTP server with timeouts and a request multiplexer.
//
// Parameters:
//   - factory: The counter factory to serve counts from.
//   - cfg: The application configuration (port, verbosity).
//   - opts: Optional functional options (e.g., WithLogger, WithLimits).
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(factory combin.CounterFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server", cfg.Verbose),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		limits:         service.DefaultLimits(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service = service.NewEnumerationService(factory, s.limits)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/count", s.wrapWithMiddleware(s.handleCount))
	mux.HandleFunc("/rank", s.wrapWithMiddleware(s.handleRank))
	mux.HandleFunc("/unrank", s.wrapWithMiddleware(s.handleUnrank))
	mux.HandleFunc("/partition", s.wrapWithMiddleware(s.handlePartition))
	mux.HandleFunc("/counters", s.wrapWithMiddleware(s.handleCounters))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the root handler with the full middleware chain, for use
// with httptest or an external listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrapWithMiddleware applies Security -> RateLimit -> RequestID -> Logging -> Metrics ->
// Handler.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = requestIDMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start listens on the configured port and serves until SIGINT or SIGTERM,
// then shuts down gracefully.
//
// Returns:
//   - error: A ServerError if the server fails to start or to shut down.
func (s *Server) Start() error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.Int("max_n", s.limits.MaxN),
			logging.Int("max_k", s.limits.MaxK),
			logging.Int("max_workers", s.limits.MaxWorkers),
			logging.Float64("max_cost", s.limits.MaxCost),
		)
		s.logger.Println("Available endpoints:")
		s.logger.Println("  GET /count?n=<n>&k=<k>[&counter=<name>]")
		s.logger.Println("  GET /rank?n=<n>&k=<k>&combination=<i,j,...>")
		s.logger.Println("  GET /unrank?n=<n>&k=<k>&rank=<rank>")
		s.logger.Println("  GET /partition?n=<n>&k=<k>&workers=<w>")
		s.logger.Println("  GET /counters, /health, /metrics")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received, initiating graceful shutdown")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
