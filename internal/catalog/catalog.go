package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salondesk/internal/models"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

const reloadDebounce = 200 * time.Millisecond

// Load reads the clients, stylists and services seed file.
func Load(path string) (models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var cat models.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return models.Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := check(cat); err != nil {
		return models.Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

func check(cat models.Catalog) error {
	seen := make(map[string]struct{})
	unique := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s without id", kind)
		}
		key := kind + "/" + id
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate %s id %q", kind, id)
		}
		seen[key] = struct{}{}
		return nil
	}

	for _, c := range cat.Clients {
		if err := unique("client", c.ID); err != nil {
			return err
		}
	}
	for _, s := range cat.Stylists {
		if err := unique("stylist", s.ID); err != nil {
			return err
		}
	}
	for _, s := range cat.Services {
		if err := unique("service", s.ID); err != nil {
			return err
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("service %s: %w", s.ID, err)
		}
	}
	return nil
}

// Apply receives a freshly loaded catalog.
type Apply func(ctx context.Context, cat models.Catalog) error

// Watch reloads the file whenever it changes and hands the result to apply
// until ctx is cancelled. The parent directory is watched so editors that
// replace the file through a rename are picked up too. A file that fails to
// parse is logged and skipped; the previous catalog stays in place.
func Watch(ctx context.Context, path string, apply Apply, logger *zerolog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info().Str("path", abs).Msg("Catalog watcher started")

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			reload = timer.C
			return
		}
		timer.Reset(reloadDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info().Msg("Catalog watcher stopped")
			return nil

		case <-reload:
			cat, err := Load(abs)
			if err != nil {
				logger.Warn().Err(err).Msg("Catalog reload skipped")
				continue
			}
			if err := apply(ctx, cat); err != nil {
				logger.Error().Err(err).Msg("Failed to apply catalog")
				continue
			}
			logger.Info().
				Int("clients", len(cat.Clients)).
				Int("stylists", len(cat.Stylists)).
				Int("services", len(cat.Services)).
				Msg("Catalog reloaded")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(werr).Msg("Catalog watcher error")
		}
	}
}
