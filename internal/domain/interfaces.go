package domain

import (
	"context"
	"time"

	"salondesk/internal/models"
)

// AppointmentRepository is the persistence boundary behind the appointment
// view-model. Delete of an unknown id must not fail.
// UpdateAppointmentStatus persists appt.Status only; it must not re-validate
// the rest of the record, so past appointments can still be closed out.
type AppointmentRepository interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	UpdateAppointment(ctx context.Context, appt *models.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, appt *models.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error
}

type CatalogRepository interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListStylists(ctx context.Context) ([]models.Stylist, error)
	GetStylist(ctx context.Context, id string) (*models.Stylist, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	CreateService(ctx context.Context, svc *models.Service) error
	UpdateService(ctx context.Context, svc *models.Service) error
	DeleteService(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Clock supplies the current time; the view-model derives "today" from it.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type AppointmentService interface {
	Today() string
	ListForDate(date string) []models.Appointment
	FilteredAndSorted(filters models.Filters) []models.Appointment
	Get(id string) (*models.Appointment, error)
	Create(ctx context.Context, in models.AppointmentInput) (*models.Appointment, error)
	Update(ctx context.Context, id string, in models.AppointmentInput) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	AggregatesForDate(date string) models.DayAggregate
	CalendarGrid(year int, month time.Month) []models.CalendarCell
	TimeSlots() []string
}

type CatalogService interface {
	ListServices(ctx context.Context, search, category string) ([]models.Service, error)
	CreateService(ctx context.Context, svc models.Service) (*models.Service, error)
	UpdateService(ctx context.Context, id string, svc models.Service) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
	ServiceStats(ctx context.Context) (models.ServiceStats, error)
	Categories(ctx context.Context) ([]string, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListStylists(ctx context.Context) ([]models.Stylist, error)
}
