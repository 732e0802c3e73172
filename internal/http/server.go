package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/Clark-Hu/movies-catalog/internal/config"
	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/repository"
)

// HealthChecker reports whether the configured backend is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	health  HealthChecker
	repo    *repository.Repository
	log     *log.Helper
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes. A nil
// health checker always reports ok.
func New(cfg config.Config, repo *repository.Repository, health HealthChecker, logger log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.DefaultLogger
	}

	s := &Server{
		cfg:    cfg,
		health: health,
		repo:   repo,
		log:    log.NewHelper(log.With(logger, "module", "http")),
		router: r,
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/views/movies", s.handleMovieView)

	mountResource(s, "/movies", resourceKind[domain.Movie]{name: "movie", validate: validateMovie}, s.repo.Movies,
		func(r chi.Router) {
			r.Get("/related", s.handleRelated)
			r.Get("/cast", s.handleCast)
		})
	mountResource(s, "/actors", resourceKind[domain.Actor]{name: "actor", validate: validateActor}, s.repo.Actors,
		func(r chi.Router) {
			r.Get("/filmography", s.handleFilmography)
		})
	mountResource(s, "/genres", resourceKind[domain.Genre]{name: "genre", validate: validateGenre}, s.repo.Genres, nil)
}

// Start boots the HTTP server and blocks until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.health.HealthCheck(ctx); err != nil {
			s.log.Warnf("health check failed: %v", err)
			s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Backend unavailable")
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
