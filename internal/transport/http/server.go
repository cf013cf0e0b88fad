package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/joshdurbin/minilink/internal/config"
	"github.com/joshdurbin/minilink/internal/metrics"
	"github.com/joshdurbin/minilink/internal/service"
)

// Server represents the HTTP server
type Server struct {
	handler *Handler
	router  http.Handler
	server  *http.Server
	port    string
	logger  *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(links service.LinkService, accounts service.AccountService, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *Server {
	handler := NewHandler(links, accounts, cfg.Session.SecureCookie, logger)
	router := NewRouter(handler, accounts, m, cfg.Logging.Verbose, logger)

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{
		handler: handler,
		router:  router,
		server:  server,
		port:    cfg.Server.Port,
		logger:  logger,
	}
}

// NewRouter wires every endpoint and middleware around handler
func NewRouter(handler *Handler, accounts service.AccountService, m *metrics.Metrics, verbose bool, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	r.Use(MetricsMiddleware(m))
	r.Use(NewSessionMiddleware(accounts, handler).Middleware)

	// Link management
	r.HandleFunc("/links", handler.CreateLink).Methods(http.MethodPost)
	r.HandleFunc("/links", handler.ListLinks).Methods(http.MethodGet)
	r.HandleFunc("/links/{code}", handler.GetLink).Methods(http.MethodGet)
	r.HandleFunc("/links/{code}", handler.UpdateLink).Methods(http.MethodPatch)
	r.HandleFunc("/links/{code}", handler.DeleteLink).Methods(http.MethodDelete)
	r.HandleFunc("/links/{code}/stats", handler.Stats).Methods(http.MethodGet)

	// Redirects answer every method
	r.HandleFunc("/r/{code}", handler.Redirect)

	// Accounts
	r.HandleFunc("/auth/signup", handler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", handler.Me).Methods(http.MethodGet)

	// Operations
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// Logging and request ids wrap everything, including unmatched routes
	var final http.Handler = r
	final = NewLoggingMiddleware(verbose, logger).Middleware(final)
	final = RequestIDMiddleware(final)

	return final
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "port", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// Router returns the fully wrapped HTTP handler (useful for testing)
func (s *Server) Router() http.Handler {
	return s.router
}

// Handler returns the server handler (useful for testing)
func (s *Server) Handler() *Handler {
	return s.handler
}
