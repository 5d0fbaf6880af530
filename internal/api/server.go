// Package api implements the HTTP layer for the assessment service.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/auth"
	"github.com/nyashahama/ai-readiness-assessments/internal/cache"
	"github.com/nyashahama/ai-readiness-assessments/internal/schema"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
	"github.com/nyashahama/ai-readiness-assessments/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// CORSOrigins are the browser origins allowed to post submissions.
	CORSOrigins []string

	// DedupeTTL is how long an identical resubmission returns the original.
	DedupeTTL time.Duration
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// assessments scores submissions; one engine per assessment kind.
	assessments *assessment.Service

	// validator checks raw bodies against the CUE schemas before decoding.
	validator *schema.Validator

	store *store.Store

	// guard short-circuits duplicate submissions. cache.Nop when Redis is
	// not configured; the store is consulted either way.
	guard cache.Guard

	// worker enqueues report delivery after a submission is stored.
	worker worker.Enqueuer

	// issuer verifies admin tokens. Admin routes are not mounted when nil.
	issuer *auth.Issuer

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Serve.
func NewServer(
	svc *assessment.Service,
	validator *schema.Validator,
	st *store.Store,
	guard cache.Guard,
	enqueuer worker.Enqueuer,
	issuer *auth.Issuer,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if guard == nil {
		guard = cache.Nop{}
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 15 * time.Minute
	}
	s := &Server{
		assessments: svc,
		validator:   validator,
		store:       st,
		guard:       guard,
		worker:      enqueuer,
		issuer:      issuer,
		cfg:         cfg,
		logger:      logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", s.handleHealthz)

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		// Public: the form layer reads the catalog and posts submissions.
		r.Get("/assessments", s.handleCatalog)
		r.Post("/assessments/{kind}", s.handleSubmit)

		if s.issuer == nil {
			return
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(s.issuer, s.respondUnauthorized))
			r.Get("/submissions", s.handleListSubmissions)
			r.Get("/submissions/export", s.handleExportSubmissions)
			r.Get("/submissions/{id}", s.handleGetSubmission)
			r.Post("/submissions/{id}/requeue", s.handleRequeueSubmission)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Error("healthz: database unreachable", "error", err, logField(r))
		respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
