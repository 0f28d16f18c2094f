package main

import (
	"context"
	"fmt"
	"time"

	"salondesk/internal/catalog"
	"salondesk/internal/config"
	"salondesk/internal/database"
	"salondesk/internal/domain"
	"salondesk/internal/logging"
	"salondesk/internal/models"
	"salondesk/internal/repository"

	"github.com/rs/zerolog"
)

// stores is the persistence wiring for one storage driver.
type stores struct {
	appointments domain.AppointmentRepository
	catalog      domain.CatalogRepository
	// applyCatalog pushes a reloaded catalog file into the store; nil when
	// the catalog is owned elsewhere.
	applyCatalog catalog.Apply
	ready        func(ctx context.Context) error
	backup       *database.BackupService
	closers      []func() error
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	case config.DriverRedis:
		return openRedis(ctx, cfg, logger)
	case config.DriverRemote:
		return openRemote(cfg, logger), nil
	default:
		return openMemory(cfg, logger)
	}
}

func loadCatalog(cfg *config.Config, logger *zerolog.Logger) (models.Catalog, error) {
	if cfg.Catalog.Path == "" {
		logger.Warn().Msg("catalog.path is empty, starting with an empty catalog")
		return models.Catalog{}, nil
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", cfg.Catalog.Path).Msg("load catalog")
		return models.Catalog{}, err
	}
	logger.Info().
		Int("clients", len(cat.Clients)).
		Int("stylists", len(cat.Stylists)).
		Int("services", len(cat.Services)).
		Msg("catalog loaded")
	return cat, nil
}

func memoryCatalog(cfg *config.Config, logger *zerolog.Logger) (*repository.MemoryCatalogRepository, catalog.Apply, error) {
	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewMemoryCatalogRepository(cat)
	apply := func(_ context.Context, next models.Catalog) error {
		repo.Replace(next)
		return nil
	}
	return repo, apply, nil
}

func openMemory(cfg *config.Config, logger *zerolog.Logger) (*stores, error) {
	catalogRepo, apply, err := memoryCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Warn().Msg("memory driver: appointments are lost on restart")
	return &stores{
		appointments: repository.NewMemoryAppointmentRepository(),
		catalog:      catalogRepo,
		applyCatalog: apply,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*stores, error) {
	db, err := database.NewDB(cfg.Storage.SQLitePath, logging.Component(logger, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Storage.SQLitePath).Msg("init database")
		return nil, err
	}
	st := &stores{
		appointments: db,
		catalog:      db,
		applyCatalog: db.SyncCatalog,
		ready:        db.PingContext,
		closers:      []func() error{db.Close},
	}

	if cfg.Catalog.Path != "" {
		cat, err := loadCatalog(cfg, logger)
		if err == nil {
			err = db.SyncCatalog(ctx, cat)
		}
		if err != nil {
			st.close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	if cfg.Backup.Enabled {
		st.backup = database.NewBackupService(db, cfg.Backup, logging.Component(logger, "backup"))
	}
	return st, nil
}

func openRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*stores, error) {
	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	catalogRepo, apply, err := memoryCatalog(cfg, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	var appts domain.AppointmentRepository = repository.NewRedisAppointmentRepository(client, cfg.Redis.Key)
	if err := repository.Ping(pingCtx, client); err != nil {
		if !cfg.Storage.Failover {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Address, err)
		}
		logger.Warn().Err(err).Msg("redis unavailable at start-up, serving from memory until it recovers")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}
	if cfg.Storage.Failover {
		appts = repository.NewFailoverAppointmentRepository(appts, repository.NewMemoryAppointmentRepository(), logging.Component(logger, "failover"))
	}

	return &stores{
		appointments: appts,
		catalog:      catalogRepo,
		applyCatalog: apply,
		ready: func(ctx context.Context) error {
			return repository.Ping(ctx, client)
		},
		closers: []func() error{func() error { return repository.Close(client) }},
	}, nil
}

func openRemote(cfg *config.Config, logger *zerolog.Logger) *stores {
	remote := repository.NewRemoteRepository(cfg.Remote.BaseURL, repository.RemoteOptions{
		APIKey:   cfg.Remote.APIKey,
		APIExtra: cfg.Remote.APIExtra,
		Timeout:  time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
		Retry:    repository.RetryPolicy{MaxRetries: cfg.Remote.MaxRetries},
	}, logging.Component(logger, "remote"))

	logger.Info().Str("base_url", cfg.Remote.BaseURL).Msg("using remote appointment service")
	return &stores{
		appointments: remote,
		catalog:      remote,
	}
}
