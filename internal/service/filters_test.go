package service

import (
	"sort"
	"testing"

	"salondesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() []models.Appointment {
	return []models.Appointment{
		appt("e", "2025-08-25", "09:00", models.StatusScheduled, "2", 25),
		appt("a", "2025-08-24", "11:30", models.StatusConfirmed, "1", 60),
		appt("b", "2025-08-24", "10:30", models.StatusCompleted, "1", 85),
		appt("c", "2025-08-20", "14:00", models.StatusConfirmed, "2", 40),
		appt("d", "2025-08-28", "09:00", models.StatusCancelled, "3", 65),
	}
}

func TestFilterAndSort_AllIsNoOp(t *testing.T) {
	in := sampleSet()
	out := FilterAndSort(in, models.NoFilters(), "2025-08-20")

	assert.Equal(t, []string{"c", "b", "a", "e", "d"}, ids(out))
	assert.Len(t, out, len(in))
	assert.True(t, sort.SliceIsSorted(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	}))
	// input untouched
	assert.Equal(t, "e", in[0].ID)
}

func TestFilterAndSort_Status(t *testing.T) {
	f := models.Filters{Status: "confirmed", Stylist: models.FilterAll, DateRange: models.FilterAll}
	out := FilterAndSort(sampleSet(), f, "2025-08-20")

	require.Len(t, out, 2)
	assert.Equal(t, []string{"c", "a"}, ids(out))
}

func TestFilterAndSort_Stylist(t *testing.T) {
	f := models.Filters{Status: models.FilterAll, Stylist: "1", DateRange: models.FilterAll}
	assert.Equal(t, []string{"b", "a"}, ids(FilterAndSort(sampleSet(), f, "2025-08-20")))
}

func TestFilterAndSort_DateRange(t *testing.T) {
	set := []models.Appointment{
		appt("yesterday", "2025-08-19", "09:00", models.StatusScheduled, "1", 0),
		appt("today", "2025-08-20", "09:00", models.StatusScheduled, "1", 0),
		appt("plus7", "2025-08-27", "18:30", models.StatusScheduled, "1", 0),
		appt("plus8", "2025-08-28", "09:00", models.StatusScheduled, "1", 0),
	}

	tests := []struct {
		name  string
		rng   string
		today string
		want  []string
	}{
		{"today", models.DateRangeToday, "2025-08-20", []string{"today"}},
		{"week inclusive", models.DateRangeWeek, "2025-08-20", []string{"today", "plus7"}},
		{"all", models.FilterAll, "2025-08-20", []string{"yesterday", "today", "plus7", "plus8"}},
		{"unknown value", "month", "2025-08-20", []string{"yesterday", "today", "plus7", "plus8"}},
		{"week across month end", models.DateRangeWeek, "2025-08-25", []string{"plus7", "plus8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := models.Filters{Status: models.FilterAll, Stylist: models.FilterAll, DateRange: tt.rng}
			assert.Equal(t, tt.want, ids(FilterAndSort(set, f, tt.today)))
		})
	}
}

func TestFilterAndSort_CombinedFilters(t *testing.T) {
	f := models.Filters{Status: "confirmed", Stylist: "2", DateRange: models.DateRangeToday}
	assert.Equal(t, []string{"c"}, ids(FilterAndSort(sampleSet(), f, "2025-08-20")))
}

func TestAppointmentsForDate(t *testing.T) {
	set := sampleSet()
	for _, a := range set {
		day := AppointmentsForDate(set, a.Date)
		assert.Contains(t, ids(day), a.ID)
		assert.True(t, sort.SliceIsSorted(day, func(i, j int) bool { return day[i].Time < day[j].Time }))
	}

	assert.Equal(t, []string{"b", "a"}, ids(AppointmentsForDate(set, "2025-08-24")))
	assert.NotNil(t, AppointmentsForDate(set, "2030-01-01"))
	assert.Empty(t, AppointmentsForDate(set, "2030-01-01"))
}

func TestAggregate(t *testing.T) {
	day := []models.Appointment{
		appt("1", "2025-08-24", "10:30", models.StatusConfirmed, "1", 85),
		appt("2", "2025-08-24", "11:00", models.StatusCompleted, "2", 25),
		appt("3", "2025-08-24", "11:30", models.StatusScheduled, "3", 60),
	}

	agg := Aggregate("2025-08-24", day)
	assert.Equal(t, 3, agg.Count)
	assert.Equal(t, 170.0, agg.Revenue)
	assert.Equal(t, 1, agg.CompletedCount)
	assert.Equal(t, 2, agg.PendingCount)
	assert.Equal(t, "2025-08-24", agg.Date)

	empty := Aggregate("2025-08-25", nil)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Revenue)
}
