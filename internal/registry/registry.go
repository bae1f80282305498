// Package registry implements the configuration engine: document
// validation, version assignment, rendered and raw reads, and the
// version history projection.
//
// The registry holds no mutable state of its own; every request reads
// current store state, and cross-request atomicity comes from the
// store's unique (service, version) constraint.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/groblegark/configd/internal/model"
	"github.com/groblegark/configd/internal/render"
	"github.com/groblegark/configd/internal/store"
)

// assignRetries bounds how many times an auto-assigned version is
// recomputed after losing an insert race.
const assignRetries = 3

// Registry is the configuration engine. Construct with New.
type Registry struct {
	store store.Store
}

// New returns a Registry backed by the given store.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// Submit validates doc, decides its version, and persists it for
// service. It returns the version that was stored.
//
// When doc carries an explicit version field, that number is used
// verbatim and a collision is surfaced as *ConflictError. Otherwise the
// next version after the service's current maximum is assigned; losing
// the insert race to a concurrent submission triggers a bounded
// recompute-and-retry, so two racing submissions never both succeed
// with the same number.
func (r *Registry) Submit(ctx context.Context, service string, doc map[string]any) (int, error) {
	if service == "" {
		return 0, inputError("service is required")
	}
	if doc == nil {
		return 0, inputError("document is required")
	}

	if errs := model.ValidateDocument(doc); len(errs) > 0 {
		return 0, &ValidationError{Errors: errs}
	}

	if version, ok := documentVersion(doc); ok {
		if err := r.insert(ctx, service, version, doc); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return 0, &ConflictError{Service: service, Version: version, Explicit: true}
			}
			return 0, err
		}
		return version, nil
	}

	// Read-then-write with no transaction across the two steps: the
	// unique constraint is what detects a lost race, and a fresh max is
	// computed before each retry.
	for attempt := 0; attempt <= assignRetries; attempt++ {
		maxv, ok, err := r.store.MaxVersion(ctx, service)
		if err != nil {
			return 0, fmt.Errorf("read max version: %w", err)
		}
		version := 1
		if ok {
			version = maxv + 1
		}

		err = r.insert(ctx, service, version, doc)
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return 0, err
		}
	}
	return 0, &ConflictError{Service: service}
}

// insert stamps version into a copy of doc and writes it. The caller's
// map is left untouched.
func (r *Registry) insert(ctx context.Context, service string, version int, doc map[string]any) error {
	if version < 1 {
		return inputError("version must be a positive integer")
	}

	stamped := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		stamped[k] = v
	}
	stamped["version"] = version

	payload, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	if _, err := r.store.InsertConfig(ctx, service, version, payload); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return err
		}
		return fmt.Errorf("insert configuration: %w", err)
	}
	return nil
}

// Get fetches one configuration. A nil version means latest.
func (r *Registry) Get(ctx context.Context, service string, version *int) (*model.Configuration, error) {
	if service == "" {
		return nil, inputError("service is required")
	}

	var (
		cfg *model.Configuration
		err error
	)
	if version == nil {
		cfg, err = r.store.GetLatestConfig(ctx, service)
	} else {
		cfg, err = r.store.GetConfig(ctx, service, *version)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return cfg, nil
}

// GetRendered fetches a configuration and renders its document against
// context. Render failures surface as *render.Error; rendering has no
// side effects, so a failure never leaves partial state anywhere.
func (r *Registry) GetRendered(ctx context.Context, service string, version *int, context map[string]any) (map[string]any, error) {
	cfg, err := r.Get(ctx, service, version)
	if err != nil {
		return nil, err
	}

	doc, err := cfg.Document()
	if err != nil {
		return nil, fmt.Errorf("decode payload for %s v%d: %w", cfg.Service, cfg.Version, err)
	}
	if context == nil {
		context = map[string]any{}
	}
	return render.Render(doc, context)
}

// History returns up to limit history entries for service, most recent
// first.
func (r *Registry) History(ctx context.Context, service string, limit int) ([]*model.HistoryEntry, error) {
	if service == "" {
		return nil, inputError("service is required")
	}
	if limit < 1 {
		return nil, inputError("limit must be a positive integer")
	}

	entries, err := r.store.ListHistory(ctx, service, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// documentVersion extracts an explicit version from the document.
// Validation has already established it is an int when present.
func documentVersion(doc map[string]any) (int, bool) {
	v, ok := doc["version"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
