package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/configd/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ConfigCount int       `json:"config_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes every stored configuration version as JSONL to w,
// sorted by service and version.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	configs, err := s.ListAllConfigs(ctx)
	if err != nil {
		return fmt.Errorf("list configs: %w", err)
	}

	sort.Slice(configs, func(i, j int) bool {
		if configs[i].Service != configs[j].Service {
			return configs[i].Service < configs[j].Service
		}
		return configs[i].Version < configs[j].Version
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		ConfigCount: len(configs),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range configs {
		if err := enc.Encode(record{Type: "config", Data: c}); err != nil {
			return fmt.Errorf("encode config %s v%d: %w", c.Service, c.Version, err)
		}
	}

	return nil
}
