package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/handlers"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/logger"
)

// Handlers are the route handlers; History is nil when the history store is disabled
type Handlers struct {
	Board    *handlers.BoardHandler
	Stations *handlers.StationHandler
	Schedule *handlers.ScheduleHandler
	History  *handlers.HistoryHandler
	Health   *handlers.HealthHandler
}

// NewRouter builds the HTTP routes
func NewRouter(h Handlers, corsOrigins []string, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Board-Status"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.GetHealth)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/api/ping", h.Health.Ping)

	// Page
	r.Get("/", h.Board.GetPage)
	r.Get("/board/{code}", h.Board.GetTables)

	// Stations and live schedules
	r.Get("/api/stations", h.Stations.GetStations)
	r.Get("/api/stations/{code}/schedule", h.Schedule.GetSchedule)

	// History
	if h.History != nil {
		r.Get("/api/queries", h.History.GetQueries)
		r.Get("/api/delays/stats", h.History.GetDelayStats)
	}

	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
