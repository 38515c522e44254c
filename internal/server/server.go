package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/raca159/simple-label-maker/internal/label"
)

// Server exposes the annotation store as a small REST API.
// It owns no state of its own; every request is delegated to the store.
type Server struct {
	store  *label.Store
	logger label.Logger
}

// New creates a Server around an initialized annotation store.
func New(store *label.Store, logger label.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Router builds the HTTP handler with all API routes and access logging.
// accessLog receives one line per request in Apache combined format.
func (s *Server) Router(accessLog io.Writer) http.Handler {
	r := mux.NewRouter().UseEncodedPath()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/project", s.getProject).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.getStats).Methods(http.MethodGet)
	api.HandleFunc("/samples", s.listSamples).Methods(http.MethodGet)
	api.HandleFunc("/samples/{id}/url", s.getSampleURL).Methods(http.MethodGet)
	api.HandleFunc("/samples/{id}/data", s.getSampleData).Methods(http.MethodGet)
	api.HandleFunc("/samples/{id}/annotations", s.listSampleAnnotations).Methods(http.MethodGet)
	api.HandleFunc("/samples/{id}/annotations/{userId}", s.getAnnotation).Methods(http.MethodGet)
	api.HandleFunc("/annotations", s.saveAnnotation).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}/annotated", s.getAnnotatedSamples).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/remaining", s.getRemainingSamples).Methods(http.MethodGet)

	return handlers.CombinedLoggingHandler(accessLog, r)
}

// respondWithJSON writes a JSON response with the given status code.
func respondWithJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondWithStoreError maps store errors onto HTTP statuses with generic
// bodies. Storage keys, credentials and decode details stay in the server
// log, never in the response.
func (s *Server) respondWithStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, label.ErrInvalidInput):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid identifier"})
	case errors.Is(err, label.ErrSampleNotFound):
		respondWithJSON(w, http.StatusNotFound, map[string]string{"message": "sample not found"})
	case errors.Is(err, label.ErrCorruptData):
		s.logger.Error("corrupt annotation data", "op", op, "error", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"message": "stored annotation could not be read"})
	default:
		// NotInitialized, StorageUnavailable and anything unexpected.
		s.logger.Error("request failed", "op", op, "error", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}
}
