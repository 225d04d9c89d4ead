package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/famoustracker/famous-tracker-go/internal/config"
	"github.com/famoustracker/famous-tracker-go/internal/constants"
)

// Server is the HTTP surface over the match engine: the order webhook plus
// the admin endpoints.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *zap.Logger
}

func NewServer(cfg config.ServerConfig, handler *Handler, logger *zap.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}
	s.setupRoutes(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  constants.ServerConfig.ReadTimeout,
		WriteTimeout: constants.ServerConfig.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes(h *Handler) {
	s.router.Use(s.requestLogging)

	s.router.HandleFunc("/healthz", h.Health).Methods("GET")
	s.router.HandleFunc("/webhooks/orders/create", h.OrderWebhook).Methods("POST")

	admin := s.router.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/search", h.AdminSearch).Methods("GET")
	admin.HandleFunc("/celebrities", h.CreateCelebrity).Methods("POST")
	admin.HandleFunc("/settings", h.GetSettings).Methods("GET")
	admin.HandleFunc("/settings", h.PutSettings).Methods("PUT")
	admin.HandleFunc("/dashboard/summary", h.DashboardSummary).Methods("GET")
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
