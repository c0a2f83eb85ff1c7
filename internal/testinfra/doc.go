// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package testinfra provides container-backed infrastructure for integration tests.
//
// It uses testcontainers-go to run the external services the feed depends on
// so that cache behaviour is exercised against the real server rather than a mock.
//
// # Redis Container
//
//	func TestSharedCache(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    testinfra.TerminateOnCleanup(t, redis)
//
//	    client := storage.NewRedisClient(redis.URL)
//	    // ...
//	}
//
// # Build Tag
//
// Everything in this package is compiled only with the integration tag:
//
//	go test -tags integration ./...
package testinfra
