// Package api exposes the public intake endpoints, the public content reads
// and the cookie-authenticated admin surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"lawdesk/internal/booking"
	"lawdesk/internal/config"
	"lawdesk/internal/database"
	"lawdesk/internal/session"
)

// Server holds the HTTP surface and its dependencies.
type Server struct {
	db       *database.DB
	booking  *booking.Service
	sessions session.Store
	cfg      *config.Config
	logger   *zerolog.Logger
	limiter  *rateLimiter

	httpServer *http.Server
}

func NewServer(db *database.DB, bookingSvc *booking.Service, sessions session.Store, cfg *config.Config, logger *zerolog.Logger) *Server {
	perMinute := cfg.Intake.RatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	return &Server{
		db:       db,
		booking:  bookingSvc,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		limiter:  newRateLimiter(perMinute),
	}
}

// Handler builds the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/health", s.handleHealth)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// Public surface.
	router.POST("/api/consultations", s.limiter.limit(s.handleCreateConsultation))
	router.GET("/api/blog", s.handlePublicBlogList)
	router.GET("/api/blog/:slug", s.handlePublicBlogGet)
	router.GET("/api/cases", s.handlePublicCaseList)
	router.GET("/api/faqs", s.handlePublicFAQList)
	router.GET("/api/testimonials", s.handlePublicTestimonialList)
	router.GET("/api/instagram", s.handlePublicInstagramList)

	// Auth.
	router.POST("/api/admin/login", s.handleLogin)
	router.POST("/api/admin/logout", s.requireSession(s.handleLogout))

	// Admin consultations.
	router.GET("/api/admin/consultations", s.requireSession(s.handleListConsultations))
	router.GET("/api/admin/export/consultations", s.requireSession(s.handleExportConsultations))
	router.GET("/api/admin/consultations/:id", s.requireSession(s.handleGetConsultation))
	router.PATCH("/api/admin/consultations/:id/status", s.requireSession(s.handleUpdateConsultationStatus))
	router.DELETE("/api/admin/consultations/:id", s.requireSession(s.handleDeleteConsultation))
	router.POST("/api/admin/auto-confirm/run", s.requireSession(s.handleRunAutoConfirm))

	// Admin message templates.
	router.GET("/api/admin/message-templates", s.requireSession(s.handleListTemplates))
	router.PUT("/api/admin/message-templates/:code", s.requireSession(s.handleUpsertTemplate))

	// Admin blocked times.
	router.GET("/api/admin/blocked-times", s.requireSession(s.handleListBlockedTimes))
	router.POST("/api/admin/blocked-times", s.requireSession(s.handleCreateBlockedTime))
	router.PATCH("/api/admin/blocked-times/:id", s.requireSession(s.handleUpdateBlockedTime))
	router.DELETE("/api/admin/blocked-times/:id", s.requireSession(s.handleDeleteBlockedTime))

	// Admin content.
	s.registerContentRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	return s.requestLogger(securityHeaders(corsHandler))
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.Server.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.Server.AllowedOrigins
}

// Start runs the HTTP server until ListenAndServe returns.
func (s *Server) Start() error {
	port := s.cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	s.logger.Info().Int("port", port).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// envelope is the uniform response shape.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// respondServiceError maps domain errors onto the HTTP taxonomy.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrSlugTaken):
		respondError(w, http.StatusConflict, "slug already in use")
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, conflictMessage(err))
	default:
		s.logger.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, database.ErrConflict) && err.Error() != database.ErrConflict.Error() {
		return err.Error()
	}
	return "requested slot is not available"
}

// decodeJSON decodes a request body strictly, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func paramID(ps httprouter.Params) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
