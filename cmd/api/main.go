package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salondesk/internal/api"
	"salondesk/internal/catalog"
	"salondesk/internal/config"
	"salondesk/internal/events"
	"salondesk/internal/logging"
	"salondesk/internal/metrics"
	"salondesk/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	cmd := &cli.Command{
		Name:   "salondesk",
		Usage:  "Salon appointment desk: scheduling API, calendar views and service catalog",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "configs/config.yaml",
				Value:       "configs/config.yaml",
				Sources:     cli.EnvVars("CONFIG_PATH"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, closer, err := loadConfigAndLogger(cmd.String("config"))
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	bus := events.NewEventBus()
	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		metrics.Subscribe(bus)
	}

	appts, err := service.NewAppointmentService(st.appointments, st.catalog, bus, service.AppointmentOptions{
		Location:  loc,
		FirstSlot: cfg.Schedule.FirstSlot,
		LastSlot:  cfg.Schedule.LastSlot,
	}, logging.Component(logger, "appointments"))
	if err != nil {
		return fmt.Errorf("init appointment service: %w", err)
	}
	if err := appts.Load(ctx); err != nil {
		return err
	}
	catalogService := service.NewCatalogService(st.catalog, bus, logging.Component(logger, "catalog"))

	router := api.NewRouter(cfg.API, api.Deps{
		Appointments: appts,
		Catalog:      catalogService,
		Display:      cfg.Display,
		Ready:        st.ready,
		Logger:       logging.Component(logger, "http"),
	})
	httpServer := api.NewHTTPServer(cfg.API, router, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(httpServer.Start)

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Monitoring.PrometheusEnabled {
		g.Go(func() error {
			return serveMetrics(gCtx, cfg.Monitoring.PrometheusPort, logger)
		})
	}

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" && st.applyCatalog != nil {
		g.Go(func() error {
			return catalog.Watch(gCtx, cfg.Catalog.Path, st.applyCatalog, logging.Component(logger, "catalog-watch"))
		})
	}

	if st.backup != nil {
		g.Go(func() error {
			return st.backup.Run(gCtx)
		})
	}

	logger.Info().
		Str("driver", cfg.Storage.Driver).
		Int("http_port", cfg.API.Port).
		Str("locale", cfg.Display.Locale).
		Str("currency", cfg.Display.Currency).
		Msg("salondesk started")

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("salondesk stopped with error")
		return err
	}
	logger.Info().Msg("salondesk stopped")
	return nil
}

func loadConfigAndLogger(configPath string) (*config.Config, *zerolog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logging.Component(baseLogger, "main"), closer, nil
}

func serveMetrics(ctx context.Context, port int, logger *zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
