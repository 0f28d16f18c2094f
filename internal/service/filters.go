package service

import (
	"sort"
	"time"

	"salondesk/internal/models"
)

// FilterAndSort applies the list-view filters in order (status, stylist,
// date range) and sorts the result by date then time. today is the current
// calendar date in DateLayout. The input slice is not modified.
func FilterAndSort(appts []models.Appointment, f models.Filters, today string) []models.Appointment {
	weekEnd := addDays(today, models.WeekRangeDays)

	out := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		if f.Status != models.FilterAll && string(a.Status) != f.Status {
			continue
		}
		if f.Stylist != models.FilterAll && a.StylistID != f.Stylist {
			continue
		}
		switch f.DateRange {
		case models.DateRangeToday:
			if a.Date != today {
				continue
			}
		case models.DateRangeWeek:
			// ISO dates compare correctly as strings
			if a.Date < today || a.Date > weekEnd {
				continue
			}
		}
		out = append(out, a)
	}

	SortByDateTime(out)
	return out
}

// SortByDateTime orders appointments by (date, time) ascending, keeping the
// relative order of equal entries.
func SortByDateTime(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
}

// AppointmentsForDate returns the appointments on date ordered by time.
func AppointmentsForDate(appts []models.Appointment, date string) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, a := range appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Aggregate summarises one day's appointments.
func Aggregate(date string, appts []models.Appointment) models.DayAggregate {
	agg := models.DayAggregate{Date: date, Count: len(appts)}
	for _, a := range appts {
		if a.Status == models.StatusCompleted {
			agg.CompletedCount++
		}
		if a.Status.IsPending() {
			agg.PendingCount++
		}
		agg.Revenue += a.Service.Price
	}
	return agg
}

func addDays(date string, days int) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(models.DateLayout)
}
