// Package server exposes the configuration registry over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/groblegark/configd/internal/events"
	"github.com/groblegark/configd/internal/registry"
	"github.com/groblegark/configd/internal/store"
)

// RegistryServer wires the engine, store, and event publisher behind
// the HTTP handlers.
type RegistryServer struct {
	registry  *registry.Registry
	store     store.Store
	publisher events.Publisher
}

// NewRegistryServer returns a new RegistryServer backed by the given
// store and publisher.
func NewRegistryServer(s store.Store, p events.Publisher) *RegistryServer {
	return &RegistryServer{
		registry:  registry.New(s),
		store:     s,
		publisher: p,
	}
}

// publishSaved emits a saved event. Publishing is best-effort; a broker
// failure is logged but never fails the request that already committed.
func (s *RegistryServer) publishSaved(ctx context.Context, service string, version int) {
	event := events.ConfigSaved{
		Service:   service,
		Version:   version,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicConfigSaved, event); err != nil {
		slog.Warn("failed to publish event",
			"topic", events.TopicConfigSaved,
			"service", service,
			"version", version,
			"error", err,
		)
	}
}
