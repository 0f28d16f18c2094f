package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"salondesk/internal/config"
	"salondesk/internal/domain"
	"salondesk/internal/export"
	"salondesk/internal/logging"
	"salondesk/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	appts   domain.AppointmentService
	catalog domain.CatalogService
	display config.DisplayConfig
	ready   func(ctx context.Context) error
	logger  *zerolog.Logger
}

func (h *handler) log(r *http.Request) *zerolog.Logger {
	return logging.FromContext(r.Context(), h.logger)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.log(r).Warn().Err(err).Msg("Readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// filtersFromQuery reads status, stylist and dateRange; a missing value
// disables that filter.
func filtersFromQuery(r *http.Request) models.Filters {
	q := r.URL.Query()
	f := models.NoFilters()
	if v := q.Get("status"); v != "" {
		f.Status = v
	}
	if v := q.Get("stylist"); v != "" {
		f.Stylist = v
	}
	if v := q.Get("dateRange"); v != "" {
		f.DateRange = v
	}
	return f
}

func (h *handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	list := h.appts.FilteredAndSorted(filtersFromQuery(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": list,
		"total":        len(list),
	})
}

func (h *handler) dayView(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		writeDomainError(w, h.log(r), domain.FieldError("date", "date must be in YYYY-MM-DD format"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":         date,
		"appointments": h.appts.ListForDate(date),
		"aggregate":    h.appts.AggregatesForDate(date),
	})
}

func (h *handler) calendar(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.appts.Today()[:len("2006-01")]
	}
	ref, err := time.Parse("2006-01", month)
	if err != nil {
		writeDomainError(w, h.log(r), domain.FieldError("month", "month must be in YYYY-MM format"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": month,
		"cells": h.appts.CalendarGrid(ref.Year(), ref.Month()),
	})
}

func (h *handler) exportAppointments(w http.ResponseWriter, r *http.Request) {
	list := h.appts.FilteredAndSorted(filtersFromQuery(r))

	var buf bytes.Buffer
	if err := export.WriteAppointments(&buf, list, h.display); err != nil {
		writeDomainError(w, h.log(r), fmt.Errorf("export appointments: %w", err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="appointments_%s.xlsx"`, h.appts.Today()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.appts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var in models.AppointmentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	appt, err := h.appts.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (h *handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	var in models.AppointmentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	appt, err := h.appts.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.Status `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	appt, err := h.appts.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.appts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) timeSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"slots": h.appts.TimeSlots()})
}

func (h *handler) settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":   h.display.Locale,
		"market":   h.display.Market,
		"currency": h.display.Currency,
		"statuses": models.Statuses,
	})
}
