package http

import (
	"context"
	stderrors "errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/turtacn/MolCanon/internal/config"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
)

// Server wraps net/http.Server with lifecycle management.
type Server struct {
	srv             *nethttp.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// NewServer constructs the HTTP server from configuration.
func NewServer(cfg config.ServerConfig, handler nethttp.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	if cfg.MaxBodySize > 0 {
		handler = maxBodyHandler(handler, cfg.MaxBodySize)
	}

	return &Server{
		srv: &nethttp.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		logger:          logger.Named("http_server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.  A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if stderrors.Is(err, nethttp.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// maxBodyHandler rejects request bodies larger than limit bytes before they
// reach the router.
func maxBodyHandler(next nethttp.Handler, limit int64) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		r.Body = nethttp.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
