package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/pkg/domain"
)

// Validator is the part of atv.Validator the HTTP API serves.
type Validator interface {
	Validate(ctx context.Context, value any, typeName string) (any, error)
	TypeMap() domain.TypeMap
}

// Watcher is implemented by validators whose types can change at runtime.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves the validation API.
type Server struct {
	Validator Validator
	metrics   http.Handler
	logger    *slog.Logger
	maxBody   int64
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes limits the size of request bodies. Defaults to 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBody = n
	}
}

// NewHandler creates a new HTTP handler for v.
func NewHandler(v Validator, opts ...Option) http.Handler {
	server := &Server{
		Validator: v,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBody:   1 << 20,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/types", server.ListTypes)
	r.Get("/types/{name}", server.GetType)
	r.Post("/validate/{name}", server.Validate)
	r.Get("/events", server.SubscribeEvents)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ValidateResponse is the body of POST /validate/{name}.
type ValidateResponse struct {
	Valid bool `json:"valid"`
	Value any  `json:"value,omitempty"`
	Error any  `json:"error,omitempty"`
}

// Validate handles the POST /validate/{name} request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "name")
	if _, ok := s.Validator.TypeMap()[typeName]; !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName))
		return
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body: unexpected data after the first value"))
		return
	}

	out, err := s.Validator.Validate(r.Context(), value, typeName)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Value: out})
	case atv.IsValidationFailure(err):
		s.logger.Debug("value rejected", "type", typeName, "err", err)
		s.writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Error: domain.DescribeError(err)})
	case errors.Is(err, domain.ErrTypeNotFound):
		s.writeError(w, http.StatusNotFound, err)
	default:
		s.logger.Error("validation failed", "type", typeName, "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

// ListTypes handles the GET /types request.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"types": s.Validator.TypeMap().Names()})
}

// GetType handles the GET /types/{name} request.
func (s *Server) GetType(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "name")
	def, ok := s.Validator.TypeMap()[typeName]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName))
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "atv-http",
		"version": strings.TrimSpace(atv.Version),
		"types":   len(s.Validator.TypeMap()),
	})
}

// SubscribeEvents handles the GET /events request (SSE). Each event carries
// the name of a type that changed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	watcher, ok := s.Validator.(Watcher)
	if !ok {
		http.Error(w, "Watching not supported", http.StatusNotImplemented)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := watcher.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
