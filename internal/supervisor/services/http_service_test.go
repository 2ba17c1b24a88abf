// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var _ suture.Service = (*HTTPService)(nil)

// stubServer returns serveErr from Serve, or blocks until Shutdown when
// serveErr is nil.
type stubServer struct {
	serveErr    error
	shutdownErr error
	stop        chan struct{}
	shutdowns   atomic.Int32
}

func newStubServer() *stubServer {
	return &stubServer{stop: make(chan struct{})}
}

func (s *stubServer) Serve(ln net.Listener) error {
	defer ln.Close()
	if s.serveErr != nil {
		return s.serveErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stop)
	}
	return s.shutdownErr
}

func waitReady(t *testing.T, svc *HTTPService) {
	t.Helper()
	select {
	case <-svc.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("service did not bind")
	}
}

func TestNewHTTPService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		svc := NewHTTPService(newStubServer(), "127.0.0.1:0", timeout)
		if svc.shutdownTimeout != defaultShutdownTimeout {
			t.Errorf("timeout %v: got %v, want %v", timeout, svc.shutdownTimeout, defaultShutdownTimeout)
		}
	}
	if got := NewHTTPService(newStubServer(), "", time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPService_ServesUntilCanceled(t *testing.T) {
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPService(srv, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	waitReady(t, svc)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + svc.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHTTPService_ListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	svc := NewHTTPService(newStubServer(), taken.Addr().String(), time.Second)
	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("Serve() on a taken port returned nil")
	}
	if svc.Addr() != nil {
		t.Errorf("Addr() = %v after failed bind", svc.Addr())
	}
}

func TestHTTPService_ServeError(t *testing.T) {
	boom := errors.New("accept failed")
	stub := newStubServer()
	stub.serveErr = boom

	err := NewHTTPService(stub, "127.0.0.1:0", time.Second).Serve(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Serve() error = %v, want %v", err, boom)
	}
}

func TestHTTPService_ShutdownError(t *testing.T) {
	shutdownErr := errors.New("drain timed out")
	stub := newStubServer()
	stub.shutdownErr = shutdownErr
	svc := NewHTTPService(stub, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	waitReady(t, svc)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, shutdownErr) {
			t.Errorf("Serve() error = %v, want %v", err, shutdownErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestHTTPService_UnderSupervisor(t *testing.T) {
	stub := newStubServer()
	svc := NewHTTPService(stub, "127.0.0.1:0", time.Second)

	sup := suture.New("test", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := sup.ServeBackground(ctx)
	waitReady(t, svc)
	cancel()
	<-done

	if stub.shutdowns.Load() < 1 {
		t.Error("Shutdown was not called on supervisor stop")
	}
}
