// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus is closed")

// Bus publishes domain events and dispatches them to registered handlers.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	mirror message.Publisher
	retry  middleware.Retry

	mu     sync.RWMutex
	closed bool
}

// New creates a Bus. mirror may be nil.
func New(cfg config.EventsConfig, mirror message.Publisher) (*Bus, error) {
	logger := NewLoggerAdapter(logging.WithComponent("events"))

	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 256
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            buffer,
		BlockPublishUntilSubscriberAck: true,
	}, logger)

	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 10 * time.Second
	}
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	interval := cfg.RetryInitialInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: interval,
		MaxInterval:     5 * interval,
		Multiplier:      2,
		Logger:          logger,
	}

	return &Bus{pubsub: pubsub, router: router, mirror: mirror, retry: retry}, nil
}

// Publish encodes payload as JSON and publishes it on topic. Request,
// correlation and user IDs from ctx travel as message metadata.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataTopic, topic)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataRequestID, id)
	}
	if id := logging.UserIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataUserID, id)
	}

	if b.mirror != nil {
		if err := b.mirror.Publish(topic, msg.Copy()); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("NATS mirror publish failed")
		}
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// HandlerFunc handles one message. The context carries the publisher's
// request and correlation IDs.
type HandlerFunc func(ctx context.Context, msg *message.Message) error

// AddHandler subscribes fn to topic. Handlers must be added before Serve.
// A returned error or panic is retried with backoff; once retries are
// exhausted the event is logged and acked. GoChannel redelivers nacked
// messages to the same subscriber, so nacking would block publishers
// forever behind a broken handler.
func (b *Bus) AddHandler(name, topic string, fn HandlerFunc) {
	h := func(msg *message.Message) ([]*message.Message, error) {
		return nil, fn(contextFromMetadata(msg), msg)
	}
	h = b.retry.Middleware(middleware.Recoverer(h))

	b.router.AddConsumerHandler(name, topic, b.pubsub, func(msg *message.Message) error {
		_, err := h(msg)
		metrics.RecordEventHandled(name, err)
		if err != nil {
			logging.Ctx(contextFromMetadata(msg)).Error().
				Err(err).
				Str("handler", name).
				Str("topic", topic).
				Str("message_uuid", msg.UUID).
				Msg("event dropped after retries")
		}
		return nil
	})
}

// Handle subscribes a typed handler. Payloads that do not decode are
// logged and acked since a retry cannot fix them.
func Handle[T any](b *Bus, name, topic string, fn func(ctx context.Context, payload T) error) {
	b.AddHandler(name, topic, func(ctx context.Context, msg *message.Message) error {
		payload, err := Decode[T](msg)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("handler", name).Msg("dropping undecodable event")
			return nil
		}
		return fn(ctx, payload)
	})
}

func contextFromMetadata(msg *message.Message) context.Context {
	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	if id := msg.Metadata.Get(MetadataRequestID); id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	if id := msg.Metadata.Get(MetadataUserID); id != "" {
		ctx = logging.ContextWithUserID(ctx, id)
	}
	return ctx
}

// Running is closed once the router is consuming.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// Serve runs the router until ctx is canceled. It implements
// suture.Service.
func (b *Bus) Serve(ctx context.Context) error {
	if err := b.router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

func (b *Bus) String() string { return "event-bus" }

// Close stops the router and releases the transport and mirror.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var errs []error
	if err := b.router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close router: %w", err))
	}
	if err := b.pubsub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pubsub: %w", err))
	}
	if b.mirror != nil {
		if err := b.mirror.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close nats mirror: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Discard is a publisher that drops every event.
type Discard struct{}

// Publish implements the services' publisher interface.
func (Discard) Publish(context.Context, string, any) error { return nil }
