// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats-server/v2/server"

	"github.com/NetRider88/viralAI/internal/logging"
)

// NewNATSMirror creates a Watermill publisher onto NATS core subjects. The
// subject is the event topic. JetStream is not used; the mirror is a live
// feed for other processes, not a durable log.
func NewNATSMirror(url string) (message.Publisher, error) {
	logger := NewLoggerAdapter(logging.WithComponent("nats"))

	natsOpts := []natsgo.Option{
		natsgo.Name("viralai-events"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS mirror publisher: %w", err)
	}
	return pub, nil
}

// EmbeddedServer is an in-process NATS server for single-node deployments.
type EmbeddedServer struct {
	server *server.Server
}

// StartEmbeddedServer starts NATS on 127.0.0.1:port. A port of -1 picks a
// free one.
func StartEmbeddedServer(port int) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "viralai-events",
		Host:       "127.0.0.1",
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}

	logging.Info().Str("url", ns.ClientURL()).Msg("embedded NATS server started")
	return &EmbeddedServer{server: ns}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.server.ClientURL()
}

// Shutdown stops the server, waiting until ctx is done at most.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		s.server.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("NATS shutdown: %w", ctx.Err())
	}
}

// Serve blocks until ctx is canceled, then shuts the server down. It
// implements suture.Service.
func (s *EmbeddedServer) Serve(ctx context.Context) error {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *EmbeddedServer) String() string { return "embedded-nats" }
