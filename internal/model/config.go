// Package model defines the data types shared by the registry engine,
// store, and HTTP layer.
package model

import (
	"encoding/json"
	"time"
)

// Configuration is one immutable version of a service's configuration.
// Once persisted, the payload for a (service, version) pair never changes.
type Configuration struct {
	ID        int64           `json:"id,omitempty"`
	Service   string          `json:"service"`
	Version   int             `json:"version"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// HistoryEntry is one row of a service's version history.
type HistoryEntry struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Document returns the payload decoded into a generic tree.
func (c *Configuration) Document() (map[string]any, error) {
	doc := make(map[string]any)
	if err := json.Unmarshal(c.Payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
