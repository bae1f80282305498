package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /health) must include
// a valid Authorization: Bearer <token> header.
func (s *RegistryServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /config/{service}", s.handleSubmitConfig)
	mux.HandleFunc("GET /config/{service}", s.handleGetConfig)
	mux.HandleFunc("GET /config/{service}/history", s.handleGetHistory)
	mux.HandleFunc("POST /config/{service}/render", s.handleRenderConfig)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = RequestLogger(h)
	h = Recoverer(h)
	return h
}

// handleIndex handles GET / with a short endpoint listing.
func (s *RegistryServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"endpoints": []string{
			"POST /config/{service}",
			"GET  /config/{service}?version=N&template=1",
			"GET  /config/{service}/history",
			"POST /config/{service}/render?version=N",
			"GET  /health",
		},
	})
}

// handleHealth handles GET /health with a database ping.
func (s *RegistryServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"detail": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErrors writes a JSON response carrying a list of error messages
// (validation and render failures).
func writeErrors(w http.ResponseWriter, status int, messages []string) {
	writeJSON(w, status, map[string][]string{"errors": messages})
}
