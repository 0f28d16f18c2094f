package repository

import (
	"context"
	"fmt"
	"sync"

	"salondesk/internal/domain"
	"salondesk/internal/models"
)

// MemoryAppointmentRepository keeps appointments in process memory in
// insertion order.
type MemoryAppointmentRepository struct {
	mu    sync.RWMutex
	items map[string]models.Appointment
	order []string
}

func NewMemoryAppointmentRepository(seed ...models.Appointment) *MemoryAppointmentRepository {
	r := &MemoryAppointmentRepository{items: make(map[string]models.Appointment)}
	for _, a := range seed {
		if _, ok := r.items[a.ID]; ok {
			continue
		}
		r.items[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r
}

func (r *MemoryAppointmentRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *MemoryAppointmentRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[appt.ID]; ok {
		return fmt.Errorf("appointment %s already exists", appt.ID)
	}
	r.items[appt.ID] = *appt
	r.order = append(r.order, appt.ID)
	return nil
}

func (r *MemoryAppointmentRepository) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[appt.ID]; !ok {
		return fmt.Errorf("appointment %s: %w", appt.ID, domain.ErrNotFound)
	}
	r.items[appt.ID] = *appt
	return nil
}

func (r *MemoryAppointmentRepository) UpdateAppointmentStatus(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[appt.ID]
	if !ok {
		return fmt.Errorf("appointment %s: %w", appt.ID, domain.ErrNotFound)
	}
	stored.Status = appt.Status
	r.items[appt.ID] = stored
	*appt = stored
	return nil
}

func (r *MemoryAppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryCatalogRepository serves clients, stylists and services from memory.
// Replace swaps the whole catalog atomically, e.g. after the seed file changed.
type MemoryCatalogRepository struct {
	mu       sync.RWMutex
	clients  []models.Client
	stylists []models.Stylist
	services []models.Service
}

func NewMemoryCatalogRepository(catalog models.Catalog) *MemoryCatalogRepository {
	r := &MemoryCatalogRepository{}
	r.Replace(catalog)
	return r
}

func (r *MemoryCatalogRepository) Replace(catalog models.Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = append([]models.Client(nil), catalog.Clients...)
	r.stylists = append([]models.Stylist(nil), catalog.Stylists...)
	r.services = append([]models.Service(nil), catalog.Services...)
}

func (r *MemoryCatalogRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Client(nil), r.clients...), nil
}

func (r *MemoryCatalogRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
}

func (r *MemoryCatalogRepository) ListStylists(ctx context.Context) ([]models.Stylist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Stylist(nil), r.stylists...), nil
}

func (r *MemoryCatalogRepository) GetStylist(ctx context.Context, id string) (*models.Stylist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stylists {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("stylist %s: %w", id, domain.ErrNotFound)
}

func (r *MemoryCatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Service(nil), r.services...), nil
}

func (r *MemoryCatalogRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
}

func (r *MemoryCatalogRepository) CreateService(ctx context.Context, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.ID == svc.ID {
			return fmt.Errorf("service %s already exists", svc.ID)
		}
	}
	r.services = append(r.services, *svc)
	return nil
}

func (r *MemoryCatalogRepository) UpdateService(ctx context.Context, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.services {
		if s.ID == svc.ID {
			r.services[i] = *svc
			return nil
		}
	}
	return fmt.Errorf("service %s: %w", svc.ID, domain.ErrNotFound)
}

func (r *MemoryCatalogRepository) DeleteService(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.services {
		if s.ID == id {
			r.services = append(r.services[:i], r.services[i+1:]...)
			return nil
		}
	}
	return nil
}
