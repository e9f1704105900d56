package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/config"
	"github.com/stockroomhq/stockroom/internal/http/handlers"
	"github.com/stockroomhq/stockroom/internal/middleware"
	"github.com/stockroomhq/stockroom/internal/storage"
)

// Stores bundles the persistence interfaces the server depends on.
type Stores interface {
	storage.UserStore
	storage.ItemStore
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store Stores, logger *slog.Logger) *Server {
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokenManager, logger).Register(mux)

	// Item routes sit behind the session verifier; everything else is open.
	itemsMux := http.NewServeMux()
	handlers.NewItemsHandler(store, logger).Register(itemsMux)
	protected := middleware.RequireAuth(tokenManager, itemsMux)
	mux.Handle("/items", protected)
	mux.Handle("/items/{id}", protected)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, limiter.Wrap(mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
