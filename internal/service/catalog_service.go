package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"salondesk/internal/domain"
	"salondesk/internal/events"
	"salondesk/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CatalogService struct {
	repo     domain.CatalogRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewCatalogService(repo domain.CatalogRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// ListServices matches search case-insensitively against name and
// description, then filters by category unless it is "all".
func (s *CatalogService) ListServices(ctx context.Context, search, category string) ([]models.Service, error) {
	all, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(search)
	out := make([]models.Service, 0, len(all))
	for _, svc := range all {
		matchesSearch := strings.Contains(strings.ToLower(svc.Name), needle) ||
			strings.Contains(strings.ToLower(svc.Description), needle)
		matchesCategory := category == "" || category == models.FilterAll || svc.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *CatalogService) CreateService(ctx context.Context, svc models.Service) (*models.Service, error) {
	svc.ID = uuid.NewString()
	if err := svc.Validate(); err != nil {
		return nil, domain.NewValidationError(err)
	}
	if err := s.repo.CreateService(ctx, &svc); err != nil {
		return nil, err
	}

	s.publish(events.EventServiceCreated, svc)
	s.logger.Info().Str("id", svc.ID).Str("name", svc.Name).Msg("Service created")
	return &svc, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id string, svc models.Service) (*models.Service, error) {
	svc.ID = id
	if err := svc.Validate(); err != nil {
		return nil, domain.NewValidationError(err)
	}
	if err := s.repo.UpdateService(ctx, &svc); err != nil {
		return nil, err
	}

	s.publish(events.EventServiceUpdated, svc)
	s.logger.Info().Str("id", id).Msg("Service updated")
	return &svc, nil
}

// DeleteService removes the service. Appointments keep their snapshot.
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if _, err := s.repo.GetService(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("delete service %s: %w", id, err)
	}

	s.publish(events.EventServiceDeleted, models.Service{ID: id})
	s.logger.Info().Str("id", id).Msg("Service deleted")
	return nil
}

// ServiceStats reports totals and the mean price rounded half up.
func (s *CatalogService) ServiceStats(ctx context.Context) (models.ServiceStats, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return models.ServiceStats{}, err
	}

	stats := models.ServiceStats{Total: len(services)}
	if len(services) == 0 {
		return stats, nil
	}

	var sum float64
	for _, svc := range services {
		if svc.IsActive {
			stats.Active++
		}
		sum += svc.Price
	}
	stats.AveragePrice = int(math.Floor(sum/float64(len(services)) + 0.5))
	return stats, nil
}

// Categories returns "all" followed by each category in first-seen order.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	out := []string{models.FilterAll}
	seen := make(map[string]struct{})
	for _, svc := range services {
		if _, ok := seen[svc.Category]; ok || svc.Category == "" {
			continue
		}
		seen[svc.Category] = struct{}{}
		out = append(out, svc.Category)
	}
	return out, nil
}

func (s *CatalogService) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *CatalogService) ListStylists(ctx context.Context) ([]models.Stylist, error) {
	return s.repo.ListStylists(ctx)
}

func (s *CatalogService) publish(eventType string, svc models.Service) {
	if s.eventBus == nil {
		return
	}
	payload := events.ServiceEventPayload{ServiceID: svc.ID, Name: svc.Name, Price: svc.Price}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
