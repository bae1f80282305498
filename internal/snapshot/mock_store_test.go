package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/groblegark/configd/internal/model"
	"github.com/groblegark/configd/internal/store"
)

// mockStore is a minimal in-memory store.Store for snapshot tests.
type mockStore struct {
	configs []*model.Configuration
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) add(service string, version int, payload string) {
	m.configs = append(m.configs, &model.Configuration{
		ID:        int64(len(m.configs) + 1),
		Service:   service,
		Version:   version,
		Payload:   json.RawMessage(payload),
		CreatedAt: time.Now().UTC(),
	})
}

func (m *mockStore) InsertConfig(_ context.Context, service string, version int, payload json.RawMessage) (int64, error) {
	for _, c := range m.configs {
		if c.Service == service && c.Version == version {
			return 0, store.ErrConflict
		}
	}
	m.add(service, version, string(payload))
	return int64(len(m.configs)), nil
}

func (m *mockStore) MaxVersion(_ context.Context, service string) (int, bool, error) {
	max, ok := 0, false
	for _, c := range m.configs {
		if c.Service == service && c.Version > max {
			max, ok = c.Version, true
		}
	}
	return max, ok, nil
}

func (m *mockStore) GetConfig(_ context.Context, service string, version int) (*model.Configuration, error) {
	for _, c := range m.configs {
		if c.Service == service && c.Version == version {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetLatestConfig(_ context.Context, service string) (*model.Configuration, error) {
	var latest *model.Configuration
	for _, c := range m.configs {
		if c.Service == service && (latest == nil || c.Version > latest.Version) {
			latest = c
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (m *mockStore) ListHistory(_ context.Context, service string, limit int) ([]*model.HistoryEntry, error) {
	var entries []*model.HistoryEntry
	for i := len(m.configs) - 1; i >= 0 && len(entries) < limit; i-- {
		if m.configs[i].Service == service {
			entries = append(entries, &model.HistoryEntry{
				Version:   m.configs[i].Version,
				CreatedAt: m.configs[i].CreatedAt,
			})
		}
	}
	return entries, nil
}

func (m *mockStore) ListAllConfigs(_ context.Context) ([]*model.Configuration, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.configs, nil
}

func (m *mockStore) Ping(_ context.Context) error { return nil }
func (m *mockStore) Close() error                 { return nil }
