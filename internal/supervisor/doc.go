// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Package supervisor runs the long-lived parts of the service under a suture
supervisor tree.

	tastefeed (root)
	├── index-layer      vector index refresh (chromem backend only)
	├── events-layer     enrichment event consumer (when NATS is enabled)
	└── api-layer        HTTP server

A service that keeps failing is restarted with backoff inside its own layer,
so a NATS outage never takes the HTTP server down with it. Supervisor events
are logged through sutureslog into the zerolog pipeline.

Service wrappers live in the services subpackage.
*/
package supervisor
