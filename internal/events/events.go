// Package events defines the registry's event topics and publishers.
package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicConfigSaved = "configd.version.saved"
)

// ConfigSaved is published after a configuration version is persisted.
type ConfigSaved struct {
	Service   string    `json:"service"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
