package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"salondesk/internal/domain"
	"salondesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemote(t *testing.T, h http.Handler) *RemoteRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	logger := zerolog.New(io.Discard)
	return NewRemoteRepository(srv.URL+"/", RemoteOptions{
		APIKey:   "key",
		APIExtra: "extra",
		Timeout:  2 * time.Second,
		Retry:    RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}, &logger)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRemoteRepository_ListAppointments(t *testing.T) {
	repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/appointments", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, "extra", r.Header.Get("x-api-extra"))
		writeJSON(w, http.StatusOK, map[string]any{
			"appointments": []models.Appointment{sampleAppointment("r1")},
			"total":        1,
		})
	}))

	list, err := repo.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
}

func TestRemoteRepository_CreateCopiesServerFields(t *testing.T) {
	var calls atomic.Int32
	repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		var in models.AppointmentInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "10:30", in.Time)

		out := sampleAppointment("server-id")
		writeJSON(w, http.StatusCreated, out)
	}))

	a := sampleAppointment("local-id")
	require.NoError(t, repo.CreateAppointment(context.Background(), &a))
	assert.Equal(t, "server-id", a.ID)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRemoteRepository_UpdateStatusSendsOnlyStatus(t *testing.T) {
	repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/appointments/r1/status", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"status": "completed"}, body)

		out := sampleAppointment("r1")
		out.Status = models.StatusCompleted
		writeJSON(w, http.StatusOK, out)
	}))

	a := sampleAppointment("r1")
	a.Date = "2020-01-01"
	a.Status = models.StatusCompleted
	require.NoError(t, repo.UpdateAppointmentStatus(context.Background(), &a))
	assert.Equal(t, models.StatusCompleted, a.Status)
	assert.Equal(t, "2025-08-24", a.Date)
}

func TestRemoteRepository_PostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream"})
	}))

	a := sampleAppointment("x")
	err := repo.CreateAppointment(context.Background(), &a)
	assert.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRemoteRepository_RetriesIdempotentCalls(t *testing.T) {
	var calls atomic.Int32
	repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "busy"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, repo.DeleteAppointment(context.Background(), "a1"))
	assert.EqualValues(t, 3, calls.Load())
}

func TestRemoteRepository_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		}))
		a := sampleAppointment("gone")
		assert.ErrorIs(t, repo.UpdateAppointment(ctx, &a), domain.ErrNotFound)
	})

	t.Run("Validation", func(t *testing.T) {
		repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": map[string]string{"date": "cannot schedule appointments in the past"},
			})
		}))
		a := sampleAppointment("v")
		err := repo.UpdateAppointment(ctx, &a)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "date")
	})

	t.Run("Reference", func(t *testing.T) {
		repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error": "referenced entity not found", "entity": "stylist", "id": "99",
			})
		}))
		a := sampleAppointment("v")
		err := repo.CreateAppointment(ctx, &a)
		assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	})
}

func TestRemoteRepository_Catalog(t *testing.T) {
	cat := sampleCatalog()
	repo := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/clients":
			writeJSON(w, http.StatusOK, map[string]any{"clients": cat.Clients})
		case "/api/v1/stylists":
			writeJSON(w, http.StatusOK, map[string]any{"stylists": cat.Stylists})
		case "/api/v1/services":
			writeJSON(w, http.StatusOK, map[string]any{"services": cat.Services})
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	c, err := repo.GetClient(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Michael Brown", c.Name)

	s, err := repo.GetStylist(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Emma Wilson", s.Name)

	_, err = repo.GetService(ctx, "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
