// Package httpapi exposes the growcore service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"growcore/internal/adapters/guides"
	"growcore/internal/blob"
	"growcore/internal/core"
	"growcore/internal/education"
	"growcore/internal/mailer"
	"growcore/internal/tracker"
	"growcore/internal/wizard"
	"growcore/pkg/domain"
)

const maxBodyBytes = 1 << 20

// Dependencies are the collaborators the router serves. Optional ones that
// are nil leave their routes answering 404.
type Dependencies struct {
	Service   *core.Service
	Relay     *mailer.Relay
	Exports   guides.Scheduler
	Education *education.Library
	// Metrics serves /metrics, typically promhttp.HandlerFor the registry.
	Metrics http.Handler
	// Vars serves /debug/vars when the expvar recorder is enabled.
	Vars   http.Handler
	Logger *zap.Logger
	// AllowedOrigins feeds the CORS middleware; empty allows any origin.
	AllowedOrigins []string
	// Location interprets datetime-local action timestamps.
	Location *time.Location
}

type server struct {
	Dependencies
}

// NewRouter builds the HTTP handler tree.
func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s := &server{Dependencies: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	if deps.Vars != nil {
		r.Method(http.MethodGet, "/debug/vars", deps.Vars)
	}

	r.Post("/api/contact", s.handleContact)
	r.Post("/.netlify/functions/send", s.handleContact)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/builder", func(r chi.Router) {
			r.Get("/schema", s.handleSchema)
			r.Post("/select", s.handleSelect)
			r.Post("/next", s.handleNext)
			r.Post("/back", s.handleBack)
			r.Post("/summary", s.handleSummary)
			r.Post("/budget", s.handleBudget)
		})
		r.Route("/guides", func(r chi.Router) {
			r.Post("/render", s.handleRender)
			r.Post("/exports", s.handleExportCreate)
			r.Get("/exports/{id}", s.handleExportGet)
			r.Get("/exports/{id}/artifacts/{format}", s.handleExportDownload)
		})
		r.Route("/journal/{layout}", func(r chi.Router) {
			r.Get("/conditions", s.handleConditionsGet)
			r.Put("/conditions", s.handleConditionsPut)
			r.Get("/notes", s.handleNotesGet)
			r.Post("/notes", s.handleNotesPost)
		})
		r.Route("/tracker", func(r chi.Router) {
			r.Post("/plants/{id}/actions", s.handleAction)
			r.Get("/plants/{id}/timeline", s.handleTimeline)
			r.Get("/due", s.handleDue)
		})
		r.Get("/education/search", s.handleSearch)
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// decode reads a JSON body. An empty body leaves dst at its zero value.
func decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		incomplete domain.StepIncompleteError
		violation  domain.RuleViolationError
		notFound   domain.ErrNotFound
	)
	switch {
	case errors.As(err, &incomplete), errors.As(err, &violation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound),
		errors.Is(err, guides.ErrUnknownExport),
		errors.Is(err, blob.ErrNotFound),
		errors.Is(err, domain.ErrUnknownStep):
		return http.StatusNotFound
	case errors.Is(err, guides.ErrQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrAtFirstStep),
		errors.Is(err, domain.ErrAtReviewStep),
		errors.Is(err, wizard.ErrIncomplete),
		errors.Is(err, tracker.ErrInvalidAction):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}
