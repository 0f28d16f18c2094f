package repository

import (
	"context"
	"testing"
	"time"

	"salondesk/internal/config"
	"salondesk/internal/domain"
	"salondesk/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAppointmentRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer Close(client)

	ctx := context.Background()
	require.NoError(t, Ping(ctx, client))

	repo := NewRedisAppointmentRepository(client, "")

	t.Run("CreateAndList", func(t *testing.T) {
		later := sampleAppointment("b")
		later.CreatedAt = later.CreatedAt.Add(time.Hour)
		earlier := sampleAppointment("a")

		require.NoError(t, repo.CreateAppointment(ctx, &later))
		require.NoError(t, repo.CreateAppointment(ctx, &earlier))

		list, err := repo.ListAppointments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].ID)
		assert.Equal(t, "b", list[1].ID)
		assert.Equal(t, "Sarah Johnson", list[0].Client.Name)
		assert.True(t, s.Exists("salondesk:appointments"))
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		dup := sampleAppointment("a")
		assert.Error(t, repo.CreateAppointment(ctx, &dup))
	})

	t.Run("Update", func(t *testing.T) {
		a := sampleAppointment("a")
		a.Notes = "bring reference photo"
		require.NoError(t, repo.UpdateAppointment(ctx, &a))

		list, _ := repo.ListAppointments(ctx)
		assert.Equal(t, "bring reference photo", list[0].Notes)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		a := sampleAppointment("zzz")
		assert.ErrorIs(t, repo.UpdateAppointment(ctx, &a), domain.ErrNotFound)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		a := sampleAppointment("a")
		a.Status = models.StatusCancelled
		require.NoError(t, repo.UpdateAppointmentStatus(ctx, &a))

		list, _ := repo.ListAppointments(ctx)
		assert.Equal(t, models.StatusCancelled, list[0].Status)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteAppointment(ctx, "a"))
		require.NoError(t, repo.DeleteAppointment(ctx, "a"))
		list, _ := repo.ListAppointments(ctx)
		assert.Len(t, list, 1)
	})

	t.Run("ServerDown", func(t *testing.T) {
		s.SetError("ERR server down")
		defer s.SetError("")
		_, err := repo.ListAppointments(ctx)
		assert.Error(t, err)
	})
}

func TestRedisAppointmentRepository_NilClient(t *testing.T) {
	repo := &RedisAppointmentRepository{key: "k"}
	_, err := repo.ListAppointments(context.Background())
	assert.Error(t, err)
	assert.Error(t, repo.DeleteAppointment(context.Background(), "x"))
}
