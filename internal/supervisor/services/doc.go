// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package services adapts components whose lifecycle is not already
context-driven to suture's Serve(ctx) error contract.

Most ViralAI components implement suture.Service directly (the event bus,
the cache GC loop, the embedded NATS server and the WebSocket hub). The
HTTP server does not: http.Server blocks in Serve and stops through a
separate Shutdown call. HTTPService bridges the two.

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	tree.AddAPIService(services.NewHTTPService(srv, cfg.Server.Addr(), 10*time.Second))

The listener is bound inside Serve, so a port conflict is reported as a
service failure and retried with suture's backoff instead of crashing the
process.
*/
package services
