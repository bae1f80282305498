package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/groblegark/configd/internal/model"
	"github.com/groblegark/configd/internal/registry"
	"github.com/groblegark/configd/internal/render"
)

// historyLimit bounds the number of entries returned by the history
// endpoint.
const historyLimit = 50

// maxBodyBytes caps request bodies; configuration documents are small.
const maxBodyBytes = 1 << 20

// handleSubmitConfig handles POST /config/{service}. The body is a YAML
// document; a missing version field is auto-assigned.
func (s *RegistryServer) handleSubmitConfig(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	var parsed any
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("YAML parse error: %v", err))
		return
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "YAML must represent a mapping (object)")
		return
	}

	version, err := s.registry.Submit(r.Context(), service, doc)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.publishSaved(r.Context(), service, version)

	writeJSON(w, http.StatusOK, map[string]any{
		"service": service,
		"version": version,
		"status":  "saved",
	})
}

// handleGetConfig handles GET /config/{service}. Without parameters it
// returns the latest version; ?version=N selects a specific one and
// ?template=1 renders the payload with a JSON context read from the
// request body.
func (s *RegistryServer) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	version, err := versionParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.URL.Query().Get("template") == "1" {
		s.renderAndWrite(w, r, service, version)
		return
	}

	cfg, err := s.registry.Get(r.Context(), service, version)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	doc, err := cfg.Document()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleRenderConfig handles POST /config/{service}/render. The template
// context is always the JSON request body.
func (s *RegistryServer) handleRenderConfig(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	version, err := versionParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.renderAndWrite(w, r, service, version)
}

// handleGetHistory handles GET /config/{service}/history.
func (s *RegistryServer) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	entries, err := s.registry.History(r.Context(), service, historyLimit)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	// Ensure the history is never null in JSON output.
	if entries == nil {
		entries = []*model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// renderAndWrite reads the template context from the request body,
// renders the requested configuration, and writes the result.
func (s *RegistryServer) renderAndWrite(w http.ResponseWriter, r *http.Request, service string, version *int) {
	context, err := contextBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rendered, err := s.registry.GetRendered(r.Context(), service, version, context)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

// writeEngineError maps registry error kinds onto HTTP responses.
func (s *RegistryServer) writeEngineError(w http.ResponseWriter, err error) {
	var (
		ve *registry.ValidationError
		ce *registry.ConflictError
		re *render.Error
	)
	switch {
	case errors.As(err, &ve):
		writeErrors(w, http.StatusUnprocessableEntity, ve.Errors)
	case errors.As(err, &re):
		writeErrors(w, http.StatusUnprocessableEntity, []string{re.Error()})
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Error())
	case errors.Is(err, registry.ErrNotFound):
		writeError(w, http.StatusNotFound, "service not found")
	case registry.IsInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// versionParam parses the optional ?version=N query parameter.
func versionParam(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("version")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("version must be integer")
	}
	return &n, nil
}

// contextBody decodes the JSON template context from the request body.
// An empty body means an empty context.
func contextBody(r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.New("failed to read body")
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	context := make(map[string]any)
	if err := json.Unmarshal(raw, &context); err != nil {
		return nil, fmt.Errorf("Invalid JSON body for template context: %v", err)
	}
	return context, nil
}
