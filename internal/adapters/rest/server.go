package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"offplan-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты API
func NewRouter(h *Handlers, baseLogger port.LoggerPort, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.HandleListProperties)
			r.Post("/filter", h.HandleFilterProperties)
			r.Get("/status-counts", h.HandleStatusCounts)
			r.Get("/city-counts", h.HandleCityCounts)
			r.Get("/{id}", h.HandlePropertyDetails)
		})
		r.Get("/cities", h.HandleListCities)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.HandleListAgents)
			r.Post("/register", h.HandleRegisterAgent)
			r.Get("/by-username/{username}", h.HandleGetAgentByUsername)
			r.Get("/{id}", h.HandleGetAgent)
			r.Put("/{id}", h.HandleUpdateAgent)
			r.Delete("/{id}", h.HandleDeleteAgent)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", h.HandleListBlogPosts)
			r.Post("/", h.HandleCreateBlogPost)
			r.Get("/{slug}", h.HandleGetBlogPost)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/last", h.HandleLastSync)
			r.Post("/{mode}", h.HandleStartSync)
		})
	})

	return r
}

func NewServer(port string, handler http.Handler, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// Start запускает HTTP-сервер и блокируется до Stop
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
