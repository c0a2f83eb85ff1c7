// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Package api exposes the feed service over HTTP using the chi router.

# Endpoints

	GET  /api/v1/users/{userID}/feed         allocate a user's feed
	POST /api/v1/candidates/invalidate       drop the cached candidate snapshot
	GET  /api/v1/health                      readiness (database ping, breaker state)
	GET  /api/v1/health/live                 liveness
	GET  /metrics                            Prometheus exposition

The feed endpoint accepts optional companion and season query parameters that
replace the stored life context for that request only. An ungrounded result
(fewer candidates than the floor) is a normal 200 response with grounded=false
and no feed.

# Response format

Every JSON endpoint wraps its payload in APIResponse:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}

Errors carry a machine-readable code:

	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}}

# Middleware

RequestID, RealIP and Recoverer are global. API routes add CORS, per-IP rate
limiting via httprate, Prometheus metrics and gzip compression.
*/
package api
