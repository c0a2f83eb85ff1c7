// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/tastefeed/internal/config"
	"github.com/tomtom215/tastefeed/internal/database"
	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/recommend/vector"
)

func newTestPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
}

func fastServiceConfig(topics ...string) ServiceConfig {
	return ServiceConfig{
		Topics:               topics,
		CloseTimeout:         time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     5 * time.Millisecond,
	}
}

// startService runs svc until the test ends and waits for its handlers.
func startService(t *testing.T, svc *Service) <-chan error {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("service did not stop")
		}
	})

	select {
	case <-svc.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return done
}

func waitForCalls(t *testing.T, inv *countingInvalidator, want int32) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if inv.calls.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Invalidate calls = %d, want %d", inv.calls.Load(), want)
}

func TestServiceInvalidatesOnEvent(t *testing.T) {
	t.Parallel()

	pubSub := newTestPubSub()
	inv := &countingInvalidator{}
	svc, err := NewService(fastServiceConfig("enrichment.completed", "candidates.refreshed"),
		StaticSubscriber(pubSub), inv, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	startService(t, svc)

	publish := func(topic, payload string) {
		if err := pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), []byte(payload))); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	publish("enrichment.completed", `{"property_id":"prop-1","status":"complete"}`)
	waitForCalls(t, inv, 1)

	publish("candidates.refreshed", `{}`)
	waitForCalls(t, inv, 2)
}

func TestServiceRetriesFailedInvalidation(t *testing.T) {
	t.Parallel()

	pubSub := newTestPubSub()
	inv := &countingInvalidator{}
	inv.failures.Store(2)

	svc, err := NewService(fastServiceConfig(DefaultTopic), StaticSubscriber(pubSub), inv, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	startService(t, svc)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"property_id":"prop-9"}`))
	if err := pubSub.Publish(DefaultTopic, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// Two failures then a success within MaxRetries.
	waitForCalls(t, inv, 3)
}

// eventually polls check until it returns true or the deadline passes.
func eventually(t *testing.T, what string, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestServicePersistsEvents(t *testing.T) {
	t.Parallel()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	prefs, err := vector.NewBadgerPreferenceStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerPreferenceStore: %v", err)
	}
	t.Cleanup(func() { _ = prefs.Close() })

	pubSub := newTestPubSub()
	inv := &countingInvalidator{}
	cfg := fastServiceConfig(DefaultTopic)
	cfg.ProfileTopics = []string{DefaultProfileTopic}
	svc, err := NewService(cfg, StaticSubscriber(pubSub), inv, watermill.NopLogger{},
		WithWriters(Writers{Candidates: db, Profiles: db, Preferences: prefs}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	startService(t, svc)

	ctx := context.Background()
	publish := func(topic, payload string) {
		t.Helper()
		if err := pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), []byte(payload))); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	publish(DefaultTopic, enrichedPayload)
	waitForCalls(t, inv, 1)

	candidates, err := db.GetEnrichedCandidates(ctx)
	if err != nil {
		t.Fatalf("GetEnrichedCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "prop-1" || candidates[0].Name != "Casa Azul" {
		t.Fatalf("candidates = %+v, want prop-1", candidates)
	}
	embeddings, err := db.CandidateEmbeddings(ctx)
	if err != nil {
		t.Fatalf("CandidateEmbeddings: %v", err)
	}
	if len(embeddings) != 1 || embeddings[0].CandidateID != "prop-1" || len(embeddings[0].Embedding) != 3 {
		t.Errorf("embeddings = %+v", embeddings)
	}

	publish(DefaultProfileTopic, `{"user_id":"u-1","profile":{"taste":{"Design":80,"Food":40}},"preference_vector":[0.1,0.2,0.3]}`)

	var profile *recommend.UserProfile
	eventually(t, "profile", func() bool {
		profile, err = db.GetUserProfile(ctx, "u-1")
		return err == nil && profile != nil
	})
	if profile.Taste[recommend.DomainDesign] != 80 || profile.Taste[recommend.DomainFood] != 40 {
		t.Errorf("profile taste = %v", profile.Taste)
	}

	var vec []float32
	eventually(t, "preference vector", func() bool {
		vec, err = prefs.GetUserVector(ctx, "u-1")
		return err == nil && len(vec) == 3
	})

	// Profile events never touch the candidate snapshot.
	if got := inv.calls.Load(); got != 1 {
		t.Errorf("Invalidate calls = %d, want 1", got)
	}
}

func TestServiceSkipsProfileTopicsWithoutWriters(t *testing.T) {
	t.Parallel()

	svc, err := NewService(fastServiceConfig(DefaultTopic), StaticSubscriber(newTestPubSub()),
		&countingInvalidator{}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	router, err := svc.newRouter(newTestPubSub())
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	handlers := router.Handlers()
	if _, ok := handlers["enrichment-"+DefaultTopic]; !ok {
		t.Errorf("enrichment handler missing: %v", handlers)
	}
	if _, ok := handlers["profile-"+DefaultProfileTopic]; ok {
		t.Error("profile handler registered without writers")
	}
}

func TestServiceStopsOnCancel(t *testing.T) {
	t.Parallel()

	svc, err := NewService(fastServiceConfig(DefaultTopic), StaticSubscriber(newTestPubSub()),
		&countingInvalidator{}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-svc.Running()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	sub := StaticSubscriber(newTestPubSub())
	if _, err := NewService(ServiceConfig{}, nil, &countingInvalidator{}, nil); err == nil {
		t.Error("expected error for nil subscriber factory")
	}
	if _, err := NewService(ServiceConfig{}, sub, nil, nil); err == nil {
		t.Error("expected error for nil invalidator")
	}

	svc, err := NewService(ServiceConfig{}, sub, &countingInvalidator{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if len(svc.cfg.Topics) != 1 || svc.cfg.Topics[0] != DefaultTopic {
		t.Errorf("Topics = %v, want [%s]", svc.cfg.Topics, DefaultTopic)
	}
	if len(svc.cfg.ProfileTopics) != 1 || svc.cfg.ProfileTopics[0] != DefaultProfileTopic {
		t.Errorf("ProfileTopics = %v, want [%s]", svc.cfg.ProfileTopics, DefaultProfileTopic)
	}
	if svc.String() != "enrichment-events" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestServeSubscriberFactoryError(t *testing.T) {
	t.Parallel()

	factory := func() (message.Subscriber, error) { return nil, errors.New("nats down") }
	svc, err := NewService(ServiceConfig{}, factory, &countingInvalidator{}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.Serve(context.Background()); err == nil {
		t.Error("expected error from Serve")
	}
}
