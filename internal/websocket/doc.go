// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package websocket pushes per-user generation progress to connected browsers.

Content generation for several platforms takes tens of seconds. While it
runs, the content service publishes generation.progress events on the event
bus; Subscribe forwards those, together with content.created and
image.generated, to every WebSocket connection the owning user has open.

Key Components:

  - Hub: owns the client set, indexed by user, and delivers messages
  - Client: one connection with its read and write pumps
  - Message: the typed envelope written to the socket

Architecture:

	event bus ──► Subscribe ──► Hub.SendToUser(userID, ...)
	                              │
	                 ┌────────────┼────────────┐
	                 ▼            ▼            ▼
	            Client(u1)   Client(u1)   Client(u2)

Each client has two goroutines:
  - readPump: reads from the socket, answers ping messages, detects close
  - writePump: writes queued messages and keeps the connection alive

A client whose send buffer is full is dropped rather than blocking the hub.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)
	websocket.Subscribe(bus, hub)

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
	    hub.ServeWS(w, r, userID)
	})
*/
package websocket
