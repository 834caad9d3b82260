package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vbonduro/vistoria/internal/auth"
	"github.com/vbonduro/vistoria/internal/photostore"
	"github.com/vbonduro/vistoria/internal/service"
)

type Server struct {
	service  *service.InspectionService
	verifier *auth.Verifier
	photos   photostore.PhotoStore
	router   chi.Router
	logger   *slog.Logger
}

// NewServer builds the HTTP API. photos may be nil when blobs are served by
// the storage backend itself; GET /photos/{key} is then not mounted.
func NewServer(svc *service.InspectionService, verifier *auth.Verifier, photos photostore.PhotoStore, logger *slog.Logger) *Server {
	s := &Server{
		service:  svc,
		verifier: verifier,
		photos:   photos,
		router:   chi.NewRouter(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(securityHeaders)

	r.Get("/healthz", s.handleHealth)
	if s.photos != nil {
		r.Get("/photos/{key}", s.handleGetPhoto)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(s.verifier))

		r.Post("/properties", s.handleRegisterProperty)
		r.Post("/properties/{id}/inspections", s.handleStartInspection)

		r.Get("/inspections", s.handleListInspections)
		r.Get("/inspections/current", s.handleCurrentInspection)
		r.Get("/inspections/{id}", s.handleGetInspection)
		r.Delete("/inspections/{id}", s.handleDeleteInspection)
		r.Post("/inspections/{id}/rooms", s.handleAddRoom)
		r.Post("/inspections/{id}/finalize", s.handleFinalize)
		r.Get("/inspections/{id}/report.pdf", s.handleReport)
		r.Get("/inspections/{id}/report.xlsx", s.handleSpreadsheet)

		r.Get("/checklists/{roomType}", s.handleChecklist)

		r.Post("/rooms/{id}/items", s.handleRecordItems)

		r.Patch("/items/{id}", s.handleUpdateItem)
		r.Post("/items/{id}/images", s.handleUploadImage)
		r.Post("/items/{id}/assessment", s.handleAssessment)
	})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}
