// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/events"
)

// fakeClient is a registered client with no connection.
func fakeClient(h *Hub, userID string, buffer int) *Client {
	c := &Client{
		id:     clientIDCounter.Add(1),
		userID: userID,
		hub:    h,
		send:   make(chan Message, buffer),
	}
	h.register(c)
	return c
}

func runHub(t *testing.T, h *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_SendToUserOnlyReachesThatUser(t *testing.T) {
	t.Parallel()

	h := NewHub()
	a1 := fakeClient(h, "alice", 4)
	a2 := fakeClient(h, "alice", 4)
	b := fakeClient(h, "bob", 4)
	runHub(t, h)

	if got := h.UserClientCount("alice"); got != 2 {
		t.Fatalf("UserClientCount(alice) = %d, want 2", got)
	}

	h.SendToUser("alice", MessageTypeGenerationProgress, map[string]int{"done": 1})
	for _, c := range []*Client{a1, a2} {
		if msg := receive(t, c.send); msg.Type != MessageTypeGenerationProgress {
			t.Errorf("Type = %q", msg.Type)
		}
	}

	h.SendToUser("bob", MessageTypeContentCreated, nil)
	if msg := receive(t, b.send); msg.Type != MessageTypeContentCreated {
		t.Errorf("Type = %q", msg.Type)
	}
	select {
	case msg := <-a1.send:
		t.Errorf("alice received bob's message %+v", msg)
	default:
	}
}

func TestHub_SendWithoutUserIsDropped(t *testing.T) {
	t.Parallel()

	h := NewHub()
	h.SendToUser("", MessageTypeContentCreated, nil)
	if len(h.outbound) != 0 {
		t.Errorf("queued %d messages for an empty user", len(h.outbound))
	}
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	t.Parallel()

	h := NewHub()
	slow := fakeClient(h, "alice", 1)
	runHub(t, h)

	h.SendToUser("alice", MessageTypeGenerationProgress, 1)
	h.SendToUser("alice", MessageTypeGenerationProgress, 2)

	waitFor(t, func() bool { return h.GetClientCount() == 0 })

	if msg := receive(t, slow.send); msg.Data != 1 {
		t.Errorf("first message Data = %v", msg.Data)
	}
	if _, ok := <-slow.send; ok {
		t.Error("send channel should be closed after disconnect")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()

	h := NewHub()
	c := fakeClient(h, "alice", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.RunWithContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext() = %v, want context.Canceled", err)
	}
	if h.GetClientCount() != 0 {
		t.Errorf("GetClientCount() = %d after shutdown", h.GetClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel still open after shutdown")
	}

	// Unregistering a client the hub already closed must not panic.
	h.unregister(c)
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled reason = %s", got)
	}

	expired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	<-expired.Done()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline reason = %s", got)
	}
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no list allows all", nil, "https://evil.example", true},
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"listed", []string{"https://app.viralai.io"}, "https://app.viralai.io", true},
		{"not listed", []string{"https://app.viralai.io"}, "https://evil.example", false},
		{"no origin header", []string{"https://app.viralai.io"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(r); got != tt.want {
				t.Errorf("originChecker() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()

	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"pong","data":null}` {
		t.Errorf("MarshalMessage() = %s", data)
	}
}

func TestServeWS_EndToEnd(t *testing.T) {
	t.Parallel()

	h := NewHub()
	runHub(t, h)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, r.URL.Query().Get("user"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/?user=alice"
	alice, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatal(err)
	}
	defer alice.Close()

	waitFor(t, func() bool { return h.UserClientCount("alice") == 1 })

	h.SendToUser("alice", MessageTypeGenerationProgress, map[string]any{"platform": "tiktok"})
	_ = alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := alice.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MessageTypeGenerationProgress {
		t.Errorf("Type = %q", msg.Type)
	}

	if err := alice.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatal(err)
	}
	if err := alice.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON(pong) error = %v", err)
	}
	if msg.Type != MessageTypePong {
		t.Errorf("reply Type = %q, want pong", msg.Type)
	}

	_ = alice.Close()
	waitFor(t, func() bool { return h.UserClientCount("alice") == 0 })
}

func TestSubscribe_ForwardsEventsToOwner(t *testing.T) {
	t.Parallel()

	bus, err := events.New(config.EventsConfig{RetryMaxRetries: 1, RetryInitialInterval: time.Millisecond}, nil)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHub()
	Subscribe(bus, h)

	alice := fakeClient(h, "alice", 8)
	runHub(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
		<-done
	})
	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not start")
	}

	if err := bus.Publish(context.Background(), events.TopicGenerationProgress, events.GenerationProgress{
		UserID: "alice", Platform: "instagram", Stage: events.StageCompleted, Done: 1, Total: 2,
	}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(context.Background(), events.TopicContentCreated, events.ContentCreated{UserID: "bob", BlockID: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(context.Background(), events.TopicImageGenerated, events.ImageGenerated{UserID: "alice", URL: "https://img"}); err != nil {
		t.Fatal(err)
	}

	first := receive(t, alice.send)
	progress, ok := first.Data.(events.GenerationProgress)
	if first.Type != MessageTypeGenerationProgress || !ok || progress.Platform != "instagram" {
		t.Errorf("first message = %+v", first)
	}
	if second := receive(t, alice.send); second.Type != MessageTypeImageGenerated {
		t.Errorf("second message type = %q, want image_generated", second.Type)
	}
}
