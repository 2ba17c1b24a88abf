// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package websocket

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/NetRider88/viralAI/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during
	// shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types.
const (
	MessageTypePing               = "ping"
	MessageTypePong               = "pong"
	MessageTypeGenerationProgress = "generation_progress"
	MessageTypeContentCreated     = "content_created"
	MessageTypeImageGenerated     = "image_generated"
)

const outboundBuffer = 256

// Message is the envelope written to the socket.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type delivery struct {
	userID string
	msg    Message
}

// Hub maintains the active clients and routes messages to the connections
// of one user.
type Hub struct {
	clients  map[*Client]bool
	outbound chan delivery
	upgrader websocket.Upgrader
	mu       sync.RWMutex
}

// NewHub creates a Hub. With no allowed origins, or with "*", any origin
// may connect.
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		clients:  make(map[*Client]bool),
		outbound: make(chan delivery, outboundBuffer),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// ServeWS upgrades the request and attaches the connection to userID. The
// caller authenticates the request first.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := NewClient(h, conn, userID)
	h.register(client)
	client.Start()
}

// RunWithContext delivers queued messages until ctx is done, then closes
// every client and returns ctx.Err().
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Shutdown wins over pending deliveries.
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case d := <-h.outbound:
			h.deliver(d)
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// String names the service in supervisor logs.
func (h *Hub) String() string { return "websocket-hub" }

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Str("user_id", c.userID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Str("user_id", c.userID).Int("total_clients", total).Msg("websocket client disconnected")
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	// Not logged as an error: cancellation is the expected shutdown path.
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// deliver sends a message to the user's clients in ID order. Clients that
// cannot keep up are dropped.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.userID == d.userID {
			targets = append(targets, client)
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].id < targets[j].id
	})

	for _, client := range targets {
		select {
		case client.send <- d.msg:
		default:
			logging.Warn().
				Str("user_id", client.userID).
				Uint64("client_id", client.id).
				Msg("websocket client too slow, disconnecting")
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// SendToUser queues a message for every connection of userID. It never
// blocks; when the queue is full the message is dropped.
func (h *Hub) SendToUser(userID, messageType string, data any) {
	if userID == "" {
		return
	}
	select {
	case h.outbound <- delivery{userID: userID, msg: Message{Type: messageType, Data: data}}:
	default:
		logging.Warn().
			Str("user_id", userID).
			Str("message_type", messageType).
			Msg("websocket outbound queue full, dropping message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of connections userID has open.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
