package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// Server accepts client connections and hands each one to the Handler.
// Connections are served one at a time: a provisioning sequence tears the
// WiFi interface down and up, and concurrent attempts would race each other.
type Server struct {
	cfg     Config
	handler *Handler
	logger  *slog.Logger
}

// NewServer creates a Server. Config defaults are applied automatically.
func NewServer(cfg Config, handler *Handler, logger *slog.Logger) *Server {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With("component", "listener"),
	}
}

// Handler returns the server's connection handler, for runtime settings
// updates.
func (s *Server) Handler() *Handler {
	return s.handler
}

// Start binds the listen address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listener: listen %s: %w", s.cfg.Addr(), err)
	}

	s.logger.Info("listening", "addr", s.cfg.Addr(), "default_profile", s.handler.DefaultProfile())

	// Unblock Accept when the context is cancelled.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.logger.Info("server stopped")
				return nil
			}
			s.logger.Warn("accept", "error", err)
			continue
		}

		s.handler.Handle(ctx, conn)
		if err := conn.Close(); err != nil {
			s.logger.Warn("close connection", "error", err)
		}
	}
}
