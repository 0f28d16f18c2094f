package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"salondesk/internal/config"
	"salondesk/internal/domain"
	"salondesk/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisAppointmentRepository stores every appointment as a JSON value in a
// single redis hash keyed by appointment id.
type RedisAppointmentRepository struct {
	client *redis.Client
	key    string
}

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisAppointmentRepository(client *redis.Client, key string) *RedisAppointmentRepository {
	if key == "" {
		key = "salondesk:appointments"
	}
	return &RedisAppointmentRepository{
		client: client,
		key:    key,
	}
}

func (r *RedisAppointmentRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	vals, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments from redis: %w", err)
	}

	out := make([]models.Appointment, 0, len(vals))
	for id, raw := range vals {
		var appt models.Appointment
		if err := json.Unmarshal([]byte(raw), &appt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal appointment %s: %w", id, err)
		}
		out = append(out, appt)
	}

	// hash order is random; keep creation order like the other stores
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RedisAppointmentRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment: %w", err)
	}

	created, err := r.client.HSetNX(ctx, r.key, appt.ID, data).Result()
	if err != nil {
		return fmt.Errorf("failed to create appointment in redis: %w", err)
	}
	if !created {
		return fmt.Errorf("appointment %s already exists", appt.ID)
	}
	return nil
}

func (r *RedisAppointmentRepository) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment: %w", err)
	}

	exists, err := r.client.HExists(ctx, r.key, appt.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to check appointment in redis: %w", err)
	}
	if !exists {
		return fmt.Errorf("appointment %s: %w", appt.ID, domain.ErrNotFound)
	}

	if err := r.client.HSet(ctx, r.key, appt.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to update appointment in redis: %w", err)
	}
	return nil
}

// UpdateAppointmentStatus rewrites the whole record; the hash stores one JSON
// document per appointment.
func (r *RedisAppointmentRepository) UpdateAppointmentStatus(ctx context.Context, appt *models.Appointment) error {
	return r.UpdateAppointment(ctx, appt)
}

func (r *RedisAppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.HDel(ctx, r.key, id).Err(); err != nil {
		return fmt.Errorf("failed to delete appointment from redis: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
