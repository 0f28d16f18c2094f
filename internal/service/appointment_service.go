package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"salondesk/internal/domain"
	"salondesk/internal/events"
	"salondesk/internal/metrics"
	"salondesk/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AppointmentOptions tunes NewAppointmentService. Zero values fall back to
// the wall clock, the local zone and the default opening hours.
type AppointmentOptions struct {
	Clock     domain.Clock
	Location  *time.Location
	FirstSlot string
	LastSlot  string
}

// AppointmentService is the appointment view-model. It keeps the collection
// in memory, derives the list and calendar views from it and writes every
// mutation through to the repository. A mutation is applied locally first
// and reverted if the repository rejects it.
type AppointmentService struct {
	repo     domain.AppointmentRepository
	catalog  domain.CatalogRepository
	eventBus domain.EventPublisher
	clock    domain.Clock
	loc      *time.Location
	slots    []string
	logger   *zerolog.Logger

	mu    sync.RWMutex
	items []models.Appointment
}

func NewAppointmentService(repo domain.AppointmentRepository, catalog domain.CatalogRepository, eventBus domain.EventPublisher, opts AppointmentOptions, logger *zerolog.Logger) (*AppointmentService, error) {
	if opts.Clock == nil {
		opts.Clock = domain.ClockFunc(time.Now)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.FirstSlot == "" {
		opts.FirstSlot = models.DefaultFirstSlot
	}
	if opts.LastSlot == "" {
		opts.LastSlot = models.DefaultLastSlot
	}
	slots, err := BuildTimeSlots(opts.FirstSlot, opts.LastSlot)
	if err != nil {
		return nil, err
	}

	return &AppointmentService{
		repo:     repo,
		catalog:  catalog,
		eventBus: eventBus,
		clock:    opts.Clock,
		loc:      opts.Location,
		slots:    slots,
		logger:   logger,
	}, nil
}

// Load replaces the in-memory collection with the repository contents.
func (s *AppointmentService) Load(ctx context.Context) error {
	items, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}

	s.mu.Lock()
	s.items = append([]models.Appointment(nil), items...)
	n := len(s.items)
	s.mu.Unlock()

	metrics.SetAppointments(n)
	s.logger.Info().Int("count", n).Msg("Appointments loaded")
	return nil
}

// Today is the current calendar date in the salon's zone.
func (s *AppointmentService) Today() string {
	return s.clock.Now().In(s.loc).Format(models.DateLayout)
}

func (s *AppointmentService) ListForDate(date string) []models.Appointment {
	return AppointmentsForDate(s.snapshot(), date)
}

func (s *AppointmentService) FilteredAndSorted(filters models.Filters) []models.Appointment {
	return FilterAndSort(s.snapshot(), filters, s.Today())
}

func (s *AppointmentService) AggregatesForDate(date string) models.DayAggregate {
	return Aggregate(date, s.ListForDate(date))
}

func (s *AppointmentService) CalendarGrid(year int, month time.Month) []models.CalendarCell {
	byDate := make(map[string][]models.Appointment)
	for _, a := range s.snapshot() {
		byDate[a.Date] = append(byDate[a.Date], a)
	}
	for date, appts := range byDate {
		byDate[date] = AppointmentsForDate(appts, date)
	}
	return BuildCalendarGrid(year, month, s.Today(), byDate)
}

func (s *AppointmentService) TimeSlots() []string {
	return append([]string(nil), s.slots...)
}

func (s *AppointmentService) Get(id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		a := s.items[i]
		return &a, nil
	}
	return nil, fmt.Errorf("appointment %s: %w", id, domain.ErrNotFound)
}

func (s *AppointmentService) Create(ctx context.Context, in models.AppointmentInput) (*models.Appointment, error) {
	if in.Status == "" {
		in.Status = models.StatusScheduled
	}
	if err := in.ValidateAt(s.Today()); err != nil {
		return nil, domain.NewValidationError(err)
	}

	appt := models.Appointment{
		ID:        uuid.NewString(),
		Date:      in.Date,
		Time:      in.Time,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.resolve(ctx, in, &appt); err != nil {
		return nil, err
	}
	localID := appt.ID

	s.mu.Lock()
	s.items = append(s.items, appt)
	s.mu.Unlock()

	// the store may assign its own id and timestamp
	persisted := appt
	if err := s.repo.CreateAppointment(ctx, &persisted); err != nil {
		s.mu.Lock()
		if i := s.indexOf(localID); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.mu.Unlock()
		return nil, s.persistFailed("create", localID, err)
	}

	s.mu.Lock()
	if i := s.indexOf(localID); i >= 0 {
		s.items[i] = persisted
	}
	n := len(s.items)
	s.mu.Unlock()

	metrics.SetAppointments(n)
	s.publish(events.EventAppointmentCreated, events.NewAppointmentPayload(&persisted))
	s.logger.Info().Str("id", persisted.ID).Str("date", persisted.Date).Str("time", persisted.Time).Msg("Appointment created")
	return &persisted, nil
}

// Update replaces every field of the appointment except ID and CreatedAt.
// An empty status keeps the current one.
func (s *AppointmentService) Update(ctx context.Context, id string, in models.AppointmentInput) (*models.Appointment, error) {
	current, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = current.Status
	}
	if err := in.ValidateAt(s.Today()); err != nil {
		return nil, domain.NewValidationError(err)
	}

	next := models.Appointment{
		ID:        id,
		Date:      in.Date,
		Time:      in.Time,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: current.CreatedAt,
	}
	if err := s.resolve(ctx, in, &next); err != nil {
		return nil, err
	}

	updated, err := s.replace(ctx, "update", id, s.repo.UpdateAppointment, func(prev models.Appointment) models.Appointment {
		next.CreatedAt = prev.CreatedAt
		return next
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.EventAppointmentUpdated, events.NewAppointmentPayload(updated))
	s.logger.Info().Str("id", id).Msg("Appointment updated")
	return updated, nil
}

// UpdateStatus sets the status only. Any status may follow any other.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Appointment, error) {
	if !status.IsValid() {
		return nil, domain.FieldError("status", fmt.Sprintf("unknown status %q", status))
	}

	var previous models.Status
	updated, err := s.replace(ctx, "update_status", id, s.repo.UpdateAppointmentStatus, func(prev models.Appointment) models.Appointment {
		previous = prev.Status
		prev.Status = status
		return prev
	})
	if err != nil {
		return nil, err
	}

	payload := events.NewAppointmentPayload(updated)
	payload.PreviousStatus = previous
	s.publish(events.EventAppointmentStatusChanged, payload)
	s.logger.Info().Str("id", id).Str("from", string(previous)).Str("to", string(status)).Msg("Appointment status changed")
	return updated, nil
}

// Delete removes the appointment. Unknown ids are ignored.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.mu.Unlock()

	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		s.mu.Lock()
		if s.indexOf(id) < 0 {
			if i > len(s.items) {
				i = len(s.items)
			}
			s.items = append(s.items[:i], append([]models.Appointment{removed}, s.items[i:]...)...)
		}
		s.mu.Unlock()
		return s.persistFailed("delete", id, err)
	}

	s.mu.RLock()
	n := len(s.items)
	s.mu.RUnlock()

	metrics.SetAppointments(n)
	s.publish(events.EventAppointmentDeleted, events.NewAppointmentPayload(&removed))
	s.logger.Info().Str("id", id).Msg("Appointment deleted")
	return nil
}

// replace applies change to the stored appointment, persists the result with
// persist and restores the previous value if the repository fails.
func (s *AppointmentService) replace(
	ctx context.Context,
	op, id string,
	persist func(context.Context, *models.Appointment) error,
	change func(models.Appointment) models.Appointment,
) (*models.Appointment, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("appointment %s: %w", id, domain.ErrNotFound)
	}
	prev := s.items[i]
	next := change(prev)
	s.items[i] = next
	s.mu.Unlock()

	persisted := next
	if err := persist(ctx, &persisted); err != nil {
		s.mu.Lock()
		if j := s.indexOf(id); j >= 0 {
			s.items[j] = prev
		}
		s.mu.Unlock()
		return nil, s.persistFailed(op, id, err)
	}

	s.mu.Lock()
	if j := s.indexOf(id); j >= 0 {
		s.items[j] = persisted
	}
	s.mu.Unlock()
	return &persisted, nil
}

// resolve fills the client, service and stylist snapshots from the catalog.
func (s *AppointmentService) resolve(ctx context.Context, in models.AppointmentInput, appt *models.Appointment) error {
	client, err := s.catalog.GetClient(ctx, in.ClientID)
	if err != nil {
		return referenceErr("client", in.ClientID, err)
	}
	svc, err := s.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return referenceErr("service", in.ServiceID, err)
	}
	stylist, err := s.catalog.GetStylist(ctx, in.StylistID)
	if err != nil {
		return referenceErr("stylist", in.StylistID, err)
	}

	appt.ClientID, appt.Client = client.ID, *client
	appt.ServiceID, appt.Service = svc.ID, *svc
	appt.StylistID, appt.Stylist = stylist.ID, *stylist
	return nil
}

func referenceErr(entity, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceError{Entity: entity, ID: id}
	}
	return fmt.Errorf("resolve %s %s: %w", entity, id, err)
}

func (s *AppointmentService) persistFailed(op, id string, err error) error {
	metrics.IncPersistenceFailure(op)
	s.logger.Error().Err(err).Str("op", op).Str("id", id).Msg("Failed to persist appointment, local change reverted")
	return err
}

func (s *AppointmentService) publish(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

func (s *AppointmentService) snapshot() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Appointment(nil), s.items...)
}

// indexOf must be called with mu held.
func (s *AppointmentService) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
