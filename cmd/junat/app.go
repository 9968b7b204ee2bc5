package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/db"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/digitraffic"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/logger"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/repository"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/schedule"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"
)

// historyStore is implemented by the sqlite and postgres backends
type historyStore interface {
	Close() error
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	RecordQuery(ctx context.Context, rec models.QueryRecord) (string, error)
	RecentQueries(ctx context.Context, stationCode string, limit int) ([]models.QueryRecord, error)
	UpdateDelayStats(ctx context.Context, stationCode string, delays []int, observedAt time.Time) error
	HourlyDelayStats(ctx context.Context, stationCode string, hours int) ([]models.DelayHourlyStat, error)
	Cleanup(ctx context.Context, retention time.Duration) (int, error)
}

// app holds everything a command needs, built once from the configuration
type app struct {
	cfg     *config.Config
	log     logger.Logger
	client  *digitraffic.Client
	catalog *catalog.Catalog
	// catalogErr is set when the startup catalog load failed; catalog is then empty
	catalogErr error
	store      historyStore // nil when history is disabled
	viewer     *viewer.Viewer
}

func newApp(ctx context.Context, withHistory bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.FilePath = cfg.LogFile
	log := logger.New(logCfg)

	a := &app{
		cfg: cfg,
		log: log,
		client: digitraffic.NewClient(digitraffic.Options{
			BaseURL:         cfg.BaseURL,
			Timeout:         cfg.HTTPTimeout,
			ArrivingTrains:  cfg.ArrivingTrains,
			DepartingTrains: cfg.DepartingTrains,
		}),
	}

	// Loaded once; no retry. The viewer keeps working with raw station codes.
	a.catalog, a.catalogErr = catalog.Load(ctx, a.client)
	if a.catalogErr != nil {
		log.Error("Station catalog unavailable", "error", a.catalogErr)
		a.catalog = catalog.Empty()
	} else {
		log.Info("Station catalog loaded", "stations", a.catalog.Len())
	}

	if withHistory {
		store, err := openStore(ctx, cfg, log)
		if err != nil {
			// History is optional: run without it
			log.Warn("History store disabled", "error", err)
		} else {
			a.store = store
		}
	}

	opts := viewer.Options{
		Trains:    a.client,
		Lookup:    a.catalog,
		Formatter: schedule.Formatter{Location: cfg.Location(), Layout: cfg.TimeLayout},
		Labels:    cfg.Labels,
		Logger:    log,
	}
	if a.store != nil {
		opts.History = a.store
	}
	a.viewer = viewer.New(opts)

	return a, nil
}

// openStore picks postgres when DATABASE_URL is set, sqlite otherwise
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (historyStore, error) {
	var (
		store historyStore
		err   error
	)
	switch {
	case cfg.DatabaseURL != "":
		store, err = repository.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err == nil {
			log.Info("History store connected", "backend", "postgres")
		}
	case cfg.HistoryEnabled:
		store, err = db.Connect(cfg.SQLitePath)
		if err == nil {
			log.Info("History store connected", "backend", "sqlite", "path", cfg.SQLitePath)
		}
	default:
		return nil, fmt.Errorf("HISTORY_ENABLED is false")
	}
	if err != nil {
		return nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("Failed to close history store", "error", err)
		}
	}
}

// runCleanup deletes expired history on every tick until ctx is done
func (a *app) runCleanup(ctx context.Context, every time.Duration) {
	if a.store == nil {
		return
	}

	cleanup := func() {
		deleted, err := a.store.Cleanup(ctx, a.cfg.RetentionDuration)
		if err != nil {
			a.log.Error("Cleanup error", "error", err)
			return
		}
		if deleted > 0 {
			a.log.Info("Cleaned up history", "deleted", deleted, "retention", a.cfg.RetentionDuration.String())
		}
	}

	cleanup()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cleanup()
		case <-ctx.Done():
			a.log.Debug("Cleanup loop stopped")
			return
		}
	}
}
