// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package middleware provides HTTP middleware shared by the API router.
//
// RequestID propagates X-Request-ID into the logging context so every log
// line written while serving a request carries the same request_id.
// PrometheusMetrics records request counts, latency and in-flight requests,
// labelled by the chi route pattern rather than the raw path to keep user IDs
// out of label values.
//
// Both are standard func(http.Handler) http.Handler middleware for r.Use().
package middleware
