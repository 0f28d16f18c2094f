package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"salondesk/internal/config"
	"salondesk/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const apiPrefix = "/api/v1"

// Deps are the collaborators the HTTP API serves.
type Deps struct {
	Appointments domain.AppointmentService
	Catalog      domain.CatalogService
	Display      config.DisplayConfig
	// Ready reports whether the backing store is reachable; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *zerolog.Logger
}

// NewRouter mounts the salon API under /api/v1 plus the health checks.
func NewRouter(cfg config.APIConfig, deps Deps) http.Handler {
	h := &handler{
		appts:   deps.Appointments,
		catalog: deps.Catalog,
		display: deps.Display,
		ready:   deps.Ready,
		logger:  deps.Logger,
	}
	auth := NewHTTPAuth(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(auth.Wrap)

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.listAppointments)
			r.Post("/", h.createAppointment)
			r.Get("/day/{date}", h.dayView)
			r.Get("/calendar", h.calendar)
			r.Get("/export", h.exportAppointments)
			r.Get("/{id}", h.getAppointment)
			r.Put("/{id}", h.updateAppointment)
			r.Patch("/{id}/status", h.updateStatus)
			r.Delete("/{id}", h.deleteAppointment)
		})
		r.Get("/slots", h.timeSlots)

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.listServices)
			r.Post("/", h.createService)
			r.Get("/stats", h.serviceStats)
			r.Get("/categories", h.categories)
			r.Put("/{id}", h.updateService)
			r.Delete("/{id}", h.deleteService)
		})
		r.Get("/clients", h.listClients)
		r.Get("/stylists", h.listStylists)
		r.Get("/settings", h.settings)
	})

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerOr(cfg.Auth.HeaderAPIKey, apiKeyHeaderDefault), headerOr(cfg.Auth.HeaderExtra, apiExtraHeaderDefault)},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
	}).Handler(r)
}

// HTTPServer runs the API router.
type HTTPServer struct {
	server *http.Server
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, handler http.Handler, logger *zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
