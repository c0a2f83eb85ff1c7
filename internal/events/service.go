// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Default subjects. Enrichment jobs publish to DefaultTopic, the profile
// pipeline to DefaultProfileTopic.
const (
	DefaultTopic        = "enrichment.completed"
	DefaultProfileTopic = "profile.updated"
)

// SubscriberFactory builds the subscriber for one router run. The router
// closes its subscribers on shutdown, so each restart needs a fresh one.
type SubscriberFactory func() (message.Subscriber, error)

// StaticSubscriber returns a factory that always yields sub. Suitable when the
// service is not expected to restart, as in tests.
func StaticSubscriber(sub message.Subscriber) SubscriberFactory {
	return func() (message.Subscriber, error) { return sub, nil }
}

// ServiceConfig holds router settings for the event consumer.
type ServiceConfig struct {
	Topics []string

	// ProfileTopics carry profile and preference vector updates. They are
	// only subscribed when a profile or preference writer is configured.
	ProfileTopics []string

	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Topics:               []string{DefaultTopic},
		ProfileTopics:        []string{DefaultProfileTopic},
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
	}
}

// Service runs a Watermill router that applies enrichment and profile events
// to the stores and invalidates the candidate snapshot on every enrichment
// event. It implements suture.Service.
type Service struct {
	cfg     ServiceConfig
	newSub  SubscriberFactory
	inv     Invalidator
	writers Writers
	logger  watermill.LoggerAdapter

	running chan struct{}
}

// ServiceOption configures optional Service behavior.
type ServiceOption func(*Service)

// WithWriters persists event payloads through w. Without it the service only
// invalidates.
func WithWriters(w Writers) ServiceOption {
	return func(s *Service) {
		s.writers = w
	}
}

// NewService creates the event consumer.
func NewService(cfg ServiceConfig, newSub SubscriberFactory, inv Invalidator, logger watermill.LoggerAdapter, opts ...ServiceOption) (*Service, error) {
	if newSub == nil {
		return nil, errors.New("subscriber factory is required")
	}
	if inv == nil {
		return nil, errors.New("invalidator is required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	defaults := DefaultServiceConfig()
	if len(cfg.Topics) == 0 {
		cfg.Topics = defaults.Topics
	}
	if len(cfg.ProfileTopics) == 0 {
		cfg.ProfileTopics = defaults.ProfileTopics
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = defaults.CloseTimeout
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaults.RetryInitialInterval
	}
	if cfg.RetryMaxInterval <= 0 {
		cfg.RetryMaxInterval = defaults.RetryMaxInterval
	}

	s := &Service{
		cfg:     cfg,
		newSub:  newSub,
		inv:     inv,
		logger:  logger,
		running: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) consumesProfiles() bool {
	return s.writers.Profiles != nil || s.writers.Preferences != nil
}

// Serve consumes events until ctx is canceled.
func (s *Service) Serve(ctx context.Context) error {
	sub, err := s.newSub()
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}

	router, err := s.newRouter(sub)
	if err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		select {
		case <-router.Running():
		case <-ctx.Done():
			return
		}
		select {
		case s.running <- struct{}{}:
		default:
		}
	}()

	fields := watermill.LogFields{"topics": s.cfg.Topics}
	if s.consumesProfiles() {
		fields["profile_topics"] = s.cfg.ProfileTopics
	}
	s.logger.Info("Event consumer starting", fields)
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Running signals once a router run has all handlers subscribed.
func (s *Service) Running() <-chan struct{} {
	return s.running
}

// String names the service in supervisor logs.
func (s *Service) String() string {
	return "enrichment-events"
}

func (s *Service) newRouter(sub message.Subscriber) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: s.cfg.CloseTimeout,
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      s.cfg.RetryMaxRetries,
		InitialInterval: s.cfg.RetryInitialInterval,
		MaxInterval:     s.cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          s.logger,
	}
	router.AddMiddleware(retry.Middleware)

	enrichment := EnrichmentHandler(s.inv, s.writers, s.logger)
	for _, topic := range s.cfg.Topics {
		router.AddConsumerHandler("enrichment-"+topic, topic, sub, enrichment)
	}
	if s.consumesProfiles() {
		profiles := ProfileHandler(s.writers, s.logger)
		for _, topic := range s.cfg.ProfileTopics {
			router.AddConsumerHandler("profile-"+topic, topic, sub, profiles)
		}
	}
	return router, nil
}
