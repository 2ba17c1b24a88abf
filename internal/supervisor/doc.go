// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package supervisor runs ViralAI's long-lived components under a suture v4
tree with restart, backoff and ordered shutdown.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(),
	    supervisor.TreeConfigFromServer(cfg.Server))
	tree.AddDataService(bus)          // events.Bus
	tree.AddDataService(researchCache) // cache.Store value-log GC
	tree.AddMessagingService(hub)     // websocket.Hub
	tree.AddAPIService(services.NewHTTPService(srv, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

A service returning an error is restarted after backoff. A service that
returns suture.ErrDoNotRestart is removed; suture.ErrTerminateSupervisorTree
stops the whole tree. Supervisor events are logged through the slog adapter
in internal/logging so they share the zerolog output.
*/
package supervisor
