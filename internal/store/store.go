package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/groblegark/configd/internal/model"
)

// ErrConflict is returned by InsertConfig when a row for the same
// (service, version) pair already exists. The database enforces this
// with a unique constraint, so it is the single source of truth for
// duplicate detection under concurrent writers.
var ErrConflict = errors.New("configuration version already exists")

// Store defines the persistence interface for configurations.
// Configurations are append-only: there is no update or delete.
type Store interface {
	// InsertConfig persists a new configuration version and returns the
	// row id. Returns ErrConflict when (service, version) is taken.
	InsertConfig(ctx context.Context, service string, version int, payload json.RawMessage) (int64, error)

	// MaxVersion returns the highest version stored for the service.
	// ok is false when the service has no configurations.
	MaxVersion(ctx context.Context, service string) (version int, ok bool, err error)

	// GetConfig fetches one version. Returns sql.ErrNoRows when absent.
	GetConfig(ctx context.Context, service string, version int) (*model.Configuration, error)

	// GetLatestConfig fetches the highest version for the service.
	// Returns sql.ErrNoRows when the service is unknown.
	GetLatestConfig(ctx context.Context, service string) (*model.Configuration, error)

	// ListHistory returns up to limit (version, created_at) entries for
	// the service, most recent first.
	ListHistory(ctx context.Context, service string, limit int) ([]*model.HistoryEntry, error)

	// ListAllConfigs returns every stored configuration ordered by
	// service then version. Used by the snapshot exporter.
	ListAllConfigs(ctx context.Context) ([]*model.Configuration, error)

	// Ping verifies database connectivity (used by the healthcheck).
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}
