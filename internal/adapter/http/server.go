package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/water-project-quality/internal/config"
	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/couchcryptid/water-project-quality/internal/observability"
	"github.com/couchcryptid/water-project-quality/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BatchResponse is the body returned by the batch assessment endpoint. The
// summary covers every submitted record; the assessment list is filtered.
type BatchResponse struct {
	Assessments []domain.Assessment `json:"assessments"`
	Summary     domain.Summary      `json:"summary"`
}

// Server exposes health, readiness, metrics and the assessment API.
type Server struct {
	httpServer   *http.Server
	logger       *slog.Logger
	metrics      *observability.Metrics
	maxBodyBytes int64
	workers      int
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 assessment routes.
func NewServer(cfg *config.Config, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:       logger,
		metrics:      metrics,
		maxBodyBytes: cfg.HTTPMaxBodyBytes,
		workers:      cfg.AssessWorkers,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(corsHandler(cfg.HTTPCORSOrigins))
		if cfg.HTTPRateLimit > 0 {
			r.Use(rateLimit(cfg.HTTPRateLimit))
		}
		r.Post("/assessments", s.handleAssess)
		r.Post("/assessments/batch", s.handleAssessBatch)
		r.Get("/gazetteer", s.handleGazetteer)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	rec, err := domain.ParseProjectRecord(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.HTTPAssessments.WithLabelValues("single").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, domain.Assess(rec))
}

func (s *Server) handleAssessBatch(w http.ResponseWriter, r *http.Request) {
	minScore, excludeTemplates, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(body, &payloads); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON array of projects")
		return
	}
	records := make([]domain.ProjectRecord, len(payloads))
	for i, p := range payloads {
		rec, err := domain.ParseProjectRecord(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("record %d: %v", i, err))
			return
		}
		records[i] = rec
	}

	assessments, err := pipeline.AssessAll(r.Context(), records, s.workers)
	if err != nil {
		s.logger.Warn("batch assessment aborted", "error", err, "records", len(records))
		writeError(w, http.StatusServiceUnavailable, "assessment aborted")
		return
	}

	s.metrics.HTTPAssessments.WithLabelValues("batch").Add(float64(len(assessments)))
	sharedobs.WriteJSON(w, http.StatusOK, BatchResponse{
		Assessments: domain.Filter(assessments, minScore, excludeTemplates),
		Summary:     domain.Summarize(assessments),
	})
}

func (s *Server) handleGazetteer(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.Gazetteer())
}

// readBody reads the request body up to the configured limit, writing the
// error response itself when it fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "read request body")
		return nil, false
	}
	return body, true
}

func parseFilter(r *http.Request) (minScore int, excludeTemplates bool, err error) {
	q := r.URL.Query()
	if v := q.Get("min_score"); v != "" {
		minScore, err = strconv.Atoi(v)
		if err != nil || minScore < 0 || minScore > 100 {
			return 0, false, errors.New("min_score must be an integer between 0 and 100")
		}
	}
	if v := q.Get("exclude_templates"); v != "" {
		excludeTemplates, err = strconv.ParseBool(v)
		if err != nil {
			return 0, false, errors.New("exclude_templates must be a boolean")
		}
	}
	return minScore, excludeTemplates, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
