package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string
	ShutdownTimeout time.Duration
}

// Server serves the API over HTTP.
type Server struct {
	config ServerConfig
	server *http.Server
	logger *log.Logger
}

// NewServer wraps handler in an http.Server.
func NewServer(cfg ServerConfig, handler http.Handler, logger *log.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		config: cfg,
		server: &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting HTTP server", "address", s.config.Address)

	// Request contexts derive from ctx so event streams end on shutdown.
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
