package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"salondesk/internal/domain"
	"salondesk/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverAppointmentRepository serves from primary and switches to fallback
// when primary returns an infrastructure error. Primary is retried once the
// recovery interval has passed. Domain errors (not found) never trigger a
// switch.
//
// While primary is healthy every successful list and write is mirrored into
// fallback, so records loaded before an outage can still be updated after it.
type FailoverAppointmentRepository struct {
	primary  domain.AppointmentRepository
	fallback domain.AppointmentRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverAppointmentRepository(primary, fallback domain.AppointmentRepository, logger *zerolog.Logger) *FailoverAppointmentRepository {
	return &FailoverAppointmentRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverAppointmentRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	fromPrimary, err := r.do(func(repo domain.AppointmentRepository) error {
		var err error
		out, err = repo.ListAppointments(ctx)
		return err
	})
	if err == nil && fromPrimary {
		r.seedFallback(ctx, out)
	}
	return out, err
}

func (r *FailoverAppointmentRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	fromPrimary, err := r.do(func(repo domain.AppointmentRepository) error {
		return repo.CreateAppointment(ctx, appt)
	})
	if err == nil && fromPrimary {
		r.mirror(ctx, *appt)
	}
	return err
}

func (r *FailoverAppointmentRepository) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	fromPrimary, err := r.do(func(repo domain.AppointmentRepository) error {
		return repo.UpdateAppointment(ctx, appt)
	})
	if err == nil && fromPrimary {
		r.mirror(ctx, *appt)
	}
	return err
}

func (r *FailoverAppointmentRepository) UpdateAppointmentStatus(ctx context.Context, appt *models.Appointment) error {
	fromPrimary, err := r.do(func(repo domain.AppointmentRepository) error {
		return repo.UpdateAppointmentStatus(ctx, appt)
	})
	if err == nil && fromPrimary {
		r.mirror(ctx, *appt)
	}
	return err
}

func (r *FailoverAppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	fromPrimary, err := r.do(func(repo domain.AppointmentRepository) error {
		return repo.DeleteAppointment(ctx, id)
	})
	if err == nil && fromPrimary {
		if ferr := r.fallback.DeleteAppointment(ctx, id); ferr != nil {
			r.logger.Warn().Err(ferr).Str("id", id).Msg("Failed to mirror delete to fallback")
		}
	}
	return err
}

// do runs call against primary, or fallback while primary is down. The bool
// reports whether primary served the call.
func (r *FailoverAppointmentRepository) do(call func(domain.AppointmentRepository) error) (bool, error) {
	if !r.isDown.Load() || r.recoveryDue() {
		err := call(r.primary)
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			if r.isDown.CompareAndSwap(true, false) {
				r.logger.Info().Msg("Primary appointment repository recovered")
			}
			return true, err
		}
		if !r.isDown.Load() {
			r.logger.Error().Err(err).Msg("Primary appointment repository failed, falling back to memory")
		}
		r.markDown()
	}

	return false, call(r.fallback)
}

// mirror upserts appt into fallback.
func (r *FailoverAppointmentRepository) mirror(ctx context.Context, appt models.Appointment) {
	err := r.fallback.UpdateAppointment(ctx, &appt)
	if errors.Is(err, domain.ErrNotFound) {
		err = r.fallback.CreateAppointment(ctx, &appt)
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("id", appt.ID).Msg("Failed to mirror appointment to fallback")
	}
}

// seedFallback makes fallback hold exactly the appointments listed by primary.
func (r *FailoverAppointmentRepository) seedFallback(ctx context.Context, appts []models.Appointment) {
	keep := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		keep[a.ID] = struct{}{}
		r.mirror(ctx, a)
	}

	stale, err := r.fallback.ListAppointments(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to list fallback appointments")
		return
	}
	for _, a := range stale {
		if _, ok := keep[a.ID]; ok {
			continue
		}
		if err := r.fallback.DeleteAppointment(ctx, a.ID); err != nil {
			r.logger.Warn().Err(err).Str("id", a.ID).Msg("Failed to prune fallback appointment")
		}
	}
}

func (r *FailoverAppointmentRepository) markDown() {
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverAppointmentRepository) recoveryDue() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > recoveryInterval
}
