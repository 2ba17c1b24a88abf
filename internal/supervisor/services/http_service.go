// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/NetRider88/viralAI/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPService runs an HTTP server under suture supervision.
type HTTPService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	listen          func(network, address string) (net.Listener, error)

	mu    sync.Mutex
	bound net.Addr
	ready chan struct{}
}

// NewHTTPService creates a service that serves on addr. A non-positive
// shutdownTimeout uses 10s.
func NewHTTPService(server HTTPServer, addr string, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		listen:          net.Listen,
		ready:           make(chan struct{}),
	}
}

// Serve binds the listener, serves until ctx is canceled and then drains
// in-flight requests within the shutdown timeout.
func (s *HTTPService) Serve(ctx context.Context) error {
	ln, err := s.listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.markReady(ln.Addr())
	logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		err := s.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-errCh
	logging.Info().Msg("HTTP server stopped")
	return ctx.Err()
}

func (s *HTTPService) markReady(addr net.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bound = addr
	select {
	case <-s.ready:
	default:
		close(s.ready)
	}
}

// Ready is closed once the listener has been bound for the first time.
func (s *HTTPService) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil before the first bind. With a
// ":0" address this is where the port chosen by the kernel shows up.
func (s *HTTPService) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

func (s *HTTPService) String() string { return "http-server" }
