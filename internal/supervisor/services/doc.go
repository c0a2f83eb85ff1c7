// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package services adapts blocking components to suture.Service.
//
// HTTPServerService turns ListenAndServe/Shutdown into a context-aware Serve.
// IndexRefreshService reloads the in-process vector index on a schedule.
// Every Serve returns ctx.Err() on cancellation so suture does not restart a
// service that was asked to stop.
package services
