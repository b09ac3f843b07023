package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"intellicoach/internal/analysis"
	"intellicoach/internal/config"
	"intellicoach/internal/logging"
)

const (
	shutdownTimeout = 30 * time.Second
	bytesPerMB      = 1 << 20
	// multipartMemory is how much of an upload is buffered in memory before
	// spilling to a temp file.
	multipartMemory = 32 << 20
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

// StatusFunc assembles the /api/status payload.
type StatusFunc func(ctx context.Context) StatusResponse

// Options configures the server.
type Options struct {
	Bind           string
	MaxConcurrent  int
	MaxUploadBytes int64
	RequestTimeout time.Duration
	APIToken       string
	Strategy       string
	Status         StatusFunc
}

// OptionsFromConfig maps [server] settings onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	strategy := "llm"
	if cfg.SignalOnly() {
		strategy = "signal"
	}
	return Options{
		Bind:           cfg.Server.Bind,
		MaxConcurrent:  cfg.Server.MaxConcurrent,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) * bytesPerMB,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		APIToken:       cfg.Server.APIToken,
		Strategy:       strategy,
	}
}

// Server is the HTTP front end.
type Server struct {
	opts     Options
	analyzer Analyzer
	logger   *slog.Logger
	slots    chan struct{}

	listener     net.Listener
	server       *http.Server
	shutdownOnce sync.Once
	done         chan struct{}
}

// NewServer builds a Server. It does not listen until Start.
func NewServer(opts Options, analyzer Analyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 500 * bytesPerMB
	}
	s := &Server{
		opts:     opts,
		analyzer: analyzer,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		slots:    make(chan struct{}, opts.MaxConcurrent),
		done:     make(chan struct{}),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", authMiddleware(s.opts.APIToken, s.handleAnalyze))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /{$}", s.handleHealth)
	return corsMiddleware(requestIDMiddleware(mux))
}

// Start listens on the configured address and serves in the background. The
// server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.opts.Bind)
	if bind == "" {
		return errors.New("api bind address not configured")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Int("max_concurrent", s.opts.MaxConcurrent),
		logging.Bool("auth", s.opts.APIToken != ""),
	)
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests, waiting up to shutdownTimeout. Only the
// first call has any effect.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		defer close(s.done)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("api server shutdown incomplete", logging.Error(err))
			return
		}
		s.logger.Info("api server stopped")
	})
}

// Done is closed once Shutdown has finished draining.
func (s *Server) Done() <-chan struct{} {
	return s.done
}
