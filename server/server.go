package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"kuanb/gosm-planner/routing"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server exposes a Router over HTTP.
type Server struct {
	router   *routing.Router
	log      *zap.Logger
	validate *validator.Validate
}

func New(router *routing.Router, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		router:   router,
		log:      log,
		validate: validator.New(),
	}
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/api/route", s.handleRoute)
	router.GET("/api/network", s.handleNetwork)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", s.handleMetrics)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	return alice.New(corsHandler.Handler, s.recoverPanic, requestLogger(s.log)).Then(router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.logMetrics(ctx, 30*time.Second)

	serverErr := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
